package dacti

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ErrIndexEntryNotFound is returned when no group lists a region id.
var ErrIndexEntryNotFound = errors.New("index entry not found")

// Index is a fully decoded index component.
type Index struct {
	Version uint32
	Groups  []IndexGroup
}

type IndexGroup struct {
	Encoding Encoding
	Entries  []IndexEntry
}

// ParseIndex decodes an index component. component holds the bytes of the
// whole component region and base is its absolute offset in the package;
// group offsets are absolute and must fall inside the region.
func ParseIndex(component []byte, base uint64) (Index, error) {
	h, err := ParseIndexComponentHeader(component)
	if err != nil {
		return Index{}, err
	}
	size := uint64(len(component))
	headers := IndexComponentHeaderSize + uint64(h.Groups)*IndexGroupHeaderSize
	if headers > size {
		return Index{}, errors.Wrapf(ErrShortBuffer, "%d index group headers need %d bytes, got %d", h.Groups, headers, size)
	}

	idx := Index{Version: h.Version, Groups: make([]IndexGroup, 0, h.Groups)}
	for i := uint32(0); i < h.Groups; i++ {
		at := IndexComponentHeaderSize + int(i)*IndexGroupHeaderSize
		g, err := ParseIndexGroupHeader(component[at:])
		if err != nil {
			return Index{}, err
		}
		if g.Encoding != EncodingNone {
			return Index{}, errors.Wrapf(ErrUnsupportedEncoding, "group %d: %q", i, g.Encoding.String())
		}
		if g.Offset < base {
			return Index{}, errors.Errorf("group %d offset %d before component at %d", i, g.Offset, base)
		}
		rel := g.Offset - base
		entries := uint64(g.Length) * IndexEntrySize
		if rel > size || size-rel < entries {
			return Index{}, errors.Wrapf(ErrShortBuffer, "group %d entries at %d past component end %d", i, g.Offset, base+size)
		}
		group := IndexGroup{Encoding: g.Encoding, Entries: make([]IndexEntry, 0, g.Length)}
		for j := uint64(0); j < uint64(g.Length); j++ {
			e, err := ParseIndexEntry(component[rel+j*IndexEntrySize:])
			if err != nil {
				return Index{}, err
			}
			group.Entries = append(group.Entries, e)
		}
		idx.Groups = append(idx.Groups, group)
	}
	return idx, nil
}

// Find returns the entry for region id.
func (idx Index) Find(id uuid.UUID) (IndexEntry, error) {
	for _, g := range idx.Groups {
		i := slices.IndexFunc(g.Entries, func(e IndexEntry) bool { return e.RegionID == id })
		if i >= 0 {
			return g.Entries[i], nil
		}
	}
	return IndexEntry{}, errors.Wrapf(ErrIndexEntryNotFound, "region %s", id)
}

// Entries lists every entry across groups.
func (idx Index) Entries() []IndexEntry {
	var out []IndexEntry
	for _, g := range idx.Groups {
		out = append(out, g.Entries...)
	}
	return out
}

// Upsert replaces the entry for e.RegionID, or appends it to the last group
// with room, or starts a new group.
func (idx *Index) Upsert(e IndexEntry) {
	for gi := range idx.Groups {
		g := &idx.Groups[gi]
		if i := slices.IndexFunc(g.Entries, func(x IndexEntry) bool { return x.RegionID == e.RegionID }); i >= 0 {
			g.Entries[i] = e
			return
		}
	}
	if n := len(idx.Groups); n > 0 && len(idx.Groups[n-1].Entries) < 255 {
		idx.Groups[n-1].Entries = append(idx.Groups[n-1].Entries, e)
		return
	}
	idx.Groups = append(idx.Groups, IndexGroup{Encoding: EncodingNone, Entries: []IndexEntry{e}})
}

// Size is the encoded length of the index.
func (idx Index) Size() int {
	n := IndexComponentHeaderSize + len(idx.Groups)*IndexGroupHeaderSize
	for _, g := range idx.Groups {
		n += len(g.Entries) * IndexEntrySize
	}
	return n
}

// Encode lays the index out for a component placed at absolute offset base:
// the header, every group header, then each group's entries back to back.
func (idx Index) Encode(base uint64) []byte {
	b := make([]byte, 0, idx.Size())
	b = IndexComponentHeader{Version: idx.Version, Groups: uint32(len(idx.Groups))}.AppendBinary(b)

	offset := base + uint64(IndexComponentHeaderSize+len(idx.Groups)*IndexGroupHeaderSize)
	for _, g := range idx.Groups {
		b = IndexGroupHeader{Offset: offset, Encoding: g.Encoding, Length: uint8(len(g.Entries))}.AppendBinary(b)
		offset += uint64(len(g.Entries) * IndexEntrySize)
	}
	for _, g := range idx.Groups {
		for _, e := range g.Entries {
			b = e.AppendBinary(b)
		}
	}
	return b
}
