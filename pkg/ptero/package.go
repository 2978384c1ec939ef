package ptero

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stewart/pkg/actor"
	"stewart/pkg/dacti"
	"stewart/pkg/daicon"
)

const (
	// IndexOffset is where a new package places its index component; the bytes
	// before it hold the signature and the component table.
	IndexOffset = 1024
	// DataOffset is where region data starts. Everything before it is reserved
	// for components and indices.
	DataOffset = 64 * 1024
)

// InitPackage writes an empty package: the signature, a component table with
// a single index entry and an empty index component. reply receives the
// result of the write.
func InitPackage(pkg actor.Sender[ReadWrite], reply actor.Sender[IOResult]) {
	pkg.Send(Write{Start: 0, Data: EmptyPackage(), Reply: reply})
}

// EmptyPackage returns the bytes InitPackage writes.
func EmptyPackage() []byte {
	data := make([]byte, 0, IndexOffset+dacti.IndexComponentHeaderSize)
	data = append(data, daicon.Signature[:]...)
	data = daicon.ComponentTableHeader{Length: 1}.AppendBinary(data)
	data = daicon.NewComponentEntry(dacti.IndexComponentUUID, daicon.RegionData{
		RelativeOffset: IndexOffset,
		Size:           dacti.IndexComponentHeaderSize,
	}).AppendBinary(data)
	data = data[:IndexOffset]
	return dacti.IndexComponentHeader{}.AppendBinary(data)
}

// IndexResult is a decoded index component and where it lives.
type IndexResult struct {
	Component FindComponentResult
	// Offset is the absolute offset of the index component.
	Offset uint64
	Index  dacti.Index
	Err    error
}

// LoadIndex finds and decodes the package's index component.
func LoadIndex(starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], reply actor.Sender[IndexResult]) {
	actor.Spawn(starter, func(self actor.Sender[FindComponentResult]) (actor.IActor[FindComponentResult], error) {
		FindComponent(starter, pkg, dacti.IndexComponentUUID, self)
		return &loadIndex{starter: starter, pkg: pkg, reply: reply}, nil
	})
}

type loadIndex struct {
	starter actor.Sender[actor.StartActor]
	pkg     actor.Sender[ReadWrite]
	reply   actor.Sender[IndexResult]
}

func (a *loadIndex) Handle(found FindComponentResult) (actor.Next, error) {
	if found.Err != nil {
		a.reply.Send(IndexResult{Err: errors.Wrap(found.Err, "failed to find index component")})
		return actor.Stop, nil
	}
	region := found.Entry.Region()
	offset := region.Offset(found.Header.EntriesOffset)
	readThen(a.starter, a.pkg, offset, uint64(region.Size), a.reply, func(res IOResult) IndexResult {
		if res.Err != nil {
			return IndexResult{Err: errors.Wrap(res.Err, "failed to read index component")}
		}
		idx, err := dacti.ParseIndex(res.Data, offset)
		if err != nil {
			return IndexResult{Err: err}
		}
		return IndexResult{Component: found, Offset: offset, Index: idx}
	})
	return actor.Stop, nil
}

// AddDataResult reports the index entry written for new data.
type AddDataResult struct {
	Entry dacti.IndexEntry
	Err   error
}

// AddData stores data as region id. The data goes after the last indexed
// region, never below DataOffset; the index is rewritten in place and the
// index component's size updated. Adding an id that already exists replaces
// its entry.
func AddData(starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], id uuid.UUID, data []byte, reply actor.Sender[AddDataResult]) {
	actor.Spawn(starter, func(self actor.Sender[IndexResult]) (actor.IActor[IndexResult], error) {
		LoadIndex(starter, pkg, self)
		return &addData{starter: starter, pkg: pkg, id: id, data: data, reply: reply}, nil
	})
}

type addData struct {
	starter actor.Sender[actor.StartActor]
	pkg     actor.Sender[ReadWrite]
	id      uuid.UUID
	data    []byte
	reply   actor.Sender[AddDataResult]
}

func (a *addData) Handle(loaded IndexResult) (actor.Next, error) {
	if loaded.Err != nil {
		a.reply.Send(AddDataResult{Err: loaded.Err})
		return actor.Stop, nil
	}

	start := uint64(DataOffset)
	for _, e := range loaded.Index.Entries() {
		if end := uint64(e.Offset) + uint64(e.Size); end > start {
			start = end
		}
	}
	if start+uint64(len(a.data)) > uint64(^uint32(0)) {
		a.reply.Send(AddDataResult{Err: errors.Errorf("region %s does not fit below 4 GiB", a.id)})
		return actor.Stop, nil
	}
	entry := dacti.IndexEntry{RegionID: a.id, Offset: uint32(start), Size: uint32(len(a.data))}

	idx := loaded.Index
	idx.Upsert(entry)
	encoded := idx.Encode(loaded.Offset)
	if loaded.Offset+uint64(len(encoded)) > DataOffset {
		a.reply.Send(AddDataResult{Err: errors.Errorf("index component outgrew its %d byte reservation", DataOffset-loaded.Offset)})
		return actor.Stop, nil
	}

	component := loaded.Component.Entry
	region := component.Region()
	region.Size = uint32(len(encoded))
	component.Data = region.Bytes()

	writes := []Write{
		{Start: start, Data: a.data},
		{Start: loaded.Offset, Data: encoded},
		{Start: loaded.Component.EntryOffset, Data: component.Bytes()},
	}
	writeAll(a.starter, a.pkg, writes, a.reply, func(err error) AddDataResult {
		if err != nil {
			return AddDataResult{Err: errors.Wrap(err, "failed to write region")}
		}
		return AddDataResult{Entry: entry}
	})
	return actor.Stop, nil
}

// ReadDataResult carries the bytes of one region.
type ReadDataResult struct {
	Entry dacti.IndexEntry
	Data  []byte
	Err   error
}

// ReadData looks region id up in the index and reads its bytes.
func ReadData(starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], id uuid.UUID, reply actor.Sender[ReadDataResult]) {
	actor.Spawn(starter, func(self actor.Sender[IndexResult]) (actor.IActor[IndexResult], error) {
		LoadIndex(starter, pkg, self)
		return &readData{starter: starter, pkg: pkg, id: id, reply: reply}, nil
	})
}

type readData struct {
	starter actor.Sender[actor.StartActor]
	pkg     actor.Sender[ReadWrite]
	id      uuid.UUID
	reply   actor.Sender[ReadDataResult]
}

func (a *readData) Handle(loaded IndexResult) (actor.Next, error) {
	if loaded.Err != nil {
		a.reply.Send(ReadDataResult{Err: loaded.Err})
		return actor.Stop, nil
	}
	entry, err := loaded.Index.Find(a.id)
	if err != nil {
		a.reply.Send(ReadDataResult{Err: err})
		return actor.Stop, nil
	}
	readThen(a.starter, a.pkg, uint64(entry.Offset), uint64(entry.Size), a.reply, func(res IOResult) ReadDataResult {
		if res.Err != nil {
			return ReadDataResult{Entry: entry, Err: errors.Wrapf(res.Err, "failed to read region %s", a.id)}
		}
		return ReadDataResult{Entry: entry, Data: res.Data}
	})
	return actor.Stop, nil
}
