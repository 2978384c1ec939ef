package ptero

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stewart/pkg/actor"
	"stewart/pkg/daicon"
)

var (
	ErrComponentNotFound = errors.New("component not found")
	ErrExtensionLoop     = errors.New("component table extension loop")
)

// FindComponentResult locates a component entry inside a package.
type FindComponentResult struct {
	// Location is where the matched entry's table header starts.
	Location uint64
	Header   daicon.ComponentTableHeader
	Entry    daicon.ComponentEntry
	// EntryOffset is where the matched entry itself starts.
	EntryOffset uint64
	Err         error
}

// FindComponent looks up the first component of type target, following table
// extensions, and replies once on reply.
//
// The lookup is a chain of one-shot actors: a read-header actor validates the
// signature and decodes the table header, a read-entries actor decodes the
// entries, and the coordinating actor matches them against target.
func FindComponent(starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], target uuid.UUID, reply actor.Sender[FindComponentResult]) {
	actor.Spawn(starter, func(self actor.Sender[findStep]) (actor.IActor[findStep], error) {
		spawnReadHeader(starter, pkg, daicon.HeaderOffset, true, self)
		return &findComponent{
			starter: starter,
			pkg:     pkg,
			target:  target,
			reply:   reply,
			self:    self,
			visited: map[uint64]struct{}{daicon.HeaderOffset: {}},
		}, nil
	})
}

// findStep is what the read actors report back to the coordinator.
type findStep interface {
	findStep()
}

type headerRead struct {
	location uint64
	header   daicon.ComponentTableHeader
}

type entriesRead struct {
	location uint64
	header   daicon.ComponentTableHeader
	entries  []daicon.ComponentEntry
}

type stepFailed struct {
	err error
}

func (headerRead) findStep()  {}
func (entriesRead) findStep() {}
func (stepFailed) findStep()  {}

type findComponent struct {
	starter actor.Sender[actor.StartActor]
	pkg     actor.Sender[ReadWrite]
	target  uuid.UUID
	reply   actor.Sender[FindComponentResult]
	self    actor.Sender[findStep]
	visited map[uint64]struct{}
}

func (a *findComponent) Handle(msg findStep) (actor.Next, error) {
	switch m := msg.(type) {
	case headerRead:
		spawnReadEntries(a.starter, a.pkg, m.location, m.header, a.self)
		return actor.Continue, nil

	case entriesRead:
		if i := daicon.FindComponentEntry(m.entries, a.target); i >= 0 {
			a.reply.Send(FindComponentResult{
				Location:    m.location,
				Header:      m.header,
				Entry:       m.entries[i],
				EntryOffset: m.location + daicon.ComponentTableHeaderSize + uint64(i)*daicon.ComponentEntrySize,
			})
			return actor.Stop, nil
		}
		if !m.header.HasExtension() {
			a.reply.Send(FindComponentResult{Err: errors.Wrapf(ErrComponentNotFound, "type %s", a.target)})
			return actor.Stop, nil
		}
		next := m.header.ExtensionOffset
		if _, ok := a.visited[next]; ok {
			a.reply.Send(FindComponentResult{Err: errors.Wrapf(ErrExtensionLoop, "table at %d", next)})
			return actor.Stop, nil
		}
		a.visited[next] = struct{}{}
		spawnReadHeader(a.starter, a.pkg, next, false, a.self)
		return actor.Continue, nil

	case stepFailed:
		a.reply.Send(FindComponentResult{Err: m.err})
		return actor.Stop, nil
	}
	return actor.Continue, nil
}

// readHeader decodes one component table header. The first table follows the
// package signature, which is validated on the way.
type readHeader struct {
	location  uint64
	signature bool
	reply     actor.Sender[findStep]
}

func spawnReadHeader(starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], location uint64, signature bool, reply actor.Sender[findStep]) {
	actor.Spawn(starter, func(self actor.Sender[IOResult]) (actor.IActor[IOResult], error) {
		start, length := location, uint64(daicon.ComponentTableHeaderSize)
		if signature {
			start -= daicon.SignatureSize
			length += daicon.SignatureSize
		}
		pkg.Send(Read{Start: start, Length: length, Reply: self})
		return &readHeader{location: location, signature: signature, reply: reply}, nil
	})
}

func (a *readHeader) Handle(res IOResult) (actor.Next, error) {
	if res.Err != nil {
		a.reply.Send(stepFailed{err: errors.Wrap(res.Err, "failed to read component table header")})
		return actor.Stop, nil
	}
	data := res.Data
	if a.signature {
		if err := daicon.CheckSignature(data); err != nil {
			a.reply.Send(stepFailed{err: err})
			return actor.Stop, nil
		}
		data = data[daicon.SignatureSize:]
	}
	header, err := daicon.ParseComponentTableHeader(data)
	if err != nil {
		a.reply.Send(stepFailed{err: err})
		return actor.Stop, nil
	}
	a.reply.Send(headerRead{location: a.location, header: header})
	return actor.Stop, nil
}

// readEntries decodes the entries following a table header.
type readEntries struct {
	location uint64
	header   daicon.ComponentTableHeader
	reply    actor.Sender[findStep]
}

func spawnReadEntries(starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], location uint64, header daicon.ComponentTableHeader, reply actor.Sender[findStep]) {
	actor.Spawn(starter, func(self actor.Sender[IOResult]) (actor.IActor[IOResult], error) {
		pkg.Send(Read{
			Start:  location + daicon.ComponentTableHeaderSize,
			Length: header.EntriesSize(),
			Reply:  self,
		})
		return &readEntries{location: location, header: header, reply: reply}, nil
	})
}

func (a *readEntries) Handle(res IOResult) (actor.Next, error) {
	if res.Err != nil {
		a.reply.Send(stepFailed{err: errors.Wrap(res.Err, "failed to read component entries")})
		return actor.Stop, nil
	}
	entries, err := daicon.ParseComponentEntries(res.Data, a.header.Length)
	if err != nil {
		a.reply.Send(stepFailed{err: err})
		return actor.Stop, nil
	}
	a.reply.Send(entriesRead{location: a.location, header: a.header, entries: entries})
	return actor.Stop, nil
}
