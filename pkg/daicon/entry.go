package daicon

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ComponentEntry is one row of a component table: a type id plus 8 bytes
// whose meaning belongs to the component, usually a RegionData.
type ComponentEntry struct {
	TypeID uuid.UUID
	Data   [8]byte
}

func NewComponentEntry(typeID uuid.UUID, region RegionData) ComponentEntry {
	return ComponentEntry{TypeID: typeID, Data: region.Bytes()}
}

func ParseComponentEntry(b []byte) (ComponentEntry, error) {
	if err := need(b, ComponentEntrySize, "component entry"); err != nil {
		return ComponentEntry{}, err
	}
	var e ComponentEntry
	e.TypeID = UUIDFromBytesLE(b[0:16])
	copy(e.Data[:], b[16:24])
	return e, nil
}

// ParseComponentEntries decodes n consecutive entries.
func ParseComponentEntries(b []byte, n uint32) ([]ComponentEntry, error) {
	if size := uint64(n) * ComponentEntrySize; uint64(len(b)) < size {
		return nil, errors.Wrapf(ErrShortBuffer, "%d component entries need %d bytes, got %d", n, size, len(b))
	}
	entries := make([]ComponentEntry, 0, n)
	for i := 0; i < int(n); i++ {
		e, err := ParseComponentEntry(b[i*ComponentEntrySize:])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FindComponentEntry returns the index of the first entry with typeID, or -1.
func FindComponentEntry(entries []ComponentEntry, typeID uuid.UUID) int {
	return slices.IndexFunc(entries, func(e ComponentEntry) bool {
		return e.TypeID == typeID
	})
}

func (e ComponentEntry) Region() RegionData {
	return ParseRegionData(e.Data)
}

func (e ComponentEntry) AppendBinary(b []byte) []byte {
	id := UUIDToBytesLE(e.TypeID)
	b = append(b, id[:]...)
	return append(b, e.Data[:]...)
}

func (e ComponentEntry) Bytes() []byte {
	return e.AppendBinary(make([]byte, 0, ComponentEntrySize))
}

// RegionData locates a component's bytes relative to its table's EntriesOffset.
type RegionData struct {
	RelativeOffset uint32
	Size           uint32
}

func ParseRegionData(data [8]byte) RegionData {
	le := binary.LittleEndian
	return RegionData{
		RelativeOffset: le.Uint32(data[0:4]),
		Size:           le.Uint32(data[4:8]),
	}
}

// Offset resolves the region against a table header's EntriesOffset.
func (r RegionData) Offset(base uint64) uint64 {
	return base + uint64(r.RelativeOffset)
}

func (r RegionData) Bytes() [8]byte {
	var out [8]byte
	le := binary.LittleEndian
	le.PutUint32(out[0:4], r.RelativeOffset)
	le.PutUint32(out[4:8], r.Size)
	return out
}
