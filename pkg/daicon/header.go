package daicon

import (
	"encoding/binary"
)

// ComponentTableHeader precedes a run of Length component entries.
type ComponentTableHeader struct {
	// ExtensionOffset points at the next table, 0 when there is none.
	ExtensionOffset    uint64
	ExtensionCountHint uint32
	Length             uint32
	// EntriesOffset is the base that entry region offsets are relative to.
	EntriesOffset uint64
}

func (h ComponentTableHeader) HasExtension() bool {
	return h.ExtensionOffset != 0
}

// EntriesSize is the byte length of the entries that follow the header.
func (h ComponentTableHeader) EntriesSize() uint64 {
	return uint64(h.Length) * ComponentEntrySize
}

func ParseComponentTableHeader(b []byte) (ComponentTableHeader, error) {
	if err := need(b, ComponentTableHeaderSize, "component table header"); err != nil {
		return ComponentTableHeader{}, err
	}
	le := binary.LittleEndian
	return ComponentTableHeader{
		ExtensionOffset:    le.Uint64(b[0:8]),
		ExtensionCountHint: le.Uint32(b[8:12]),
		Length:             le.Uint32(b[12:16]),
		EntriesOffset:      le.Uint64(b[16:24]),
	}, nil
}

func (h ComponentTableHeader) AppendBinary(b []byte) []byte {
	le := binary.LittleEndian
	b = le.AppendUint64(b, h.ExtensionOffset)
	b = le.AppendUint32(b, h.ExtensionCountHint)
	b = le.AppendUint32(b, h.Length)
	b = le.AppendUint64(b, h.EntriesOffset)
	return b
}

func (h ComponentTableHeader) Bytes() []byte {
	return h.AppendBinary(make([]byte, 0, ComponentTableHeaderSize))
}
