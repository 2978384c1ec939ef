// Package dacti reads and writes the index component stored inside a daicon
// package. The index maps region ids to byte ranges in the package.
package dacti

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stewart/pkg/daicon"
)

// IndexComponentUUID is the component type id of the index.
var IndexComponentUUID = uuid.MustParse("2c5e4717-b715-429b-85cd-d320d242547a")

const (
	IndexComponentHeaderSize = 8
	IndexGroupHeaderSize     = 16
	IndexEntrySize           = 24
)

var (
	ErrShortBuffer         = daicon.ErrShortBuffer
	ErrUnsupportedEncoding = errors.New("unsupported index group encoding")
)

func need(b []byte, n int, what string) error {
	if len(b) < n {
		return errors.Wrapf(ErrShortBuffer, "%s needs %d bytes, got %d", what, n, len(b))
	}
	return nil
}

type IndexComponentHeader struct {
	Version uint32
	Groups  uint32
}

func ParseIndexComponentHeader(b []byte) (IndexComponentHeader, error) {
	if err := need(b, IndexComponentHeaderSize, "index component header"); err != nil {
		return IndexComponentHeader{}, err
	}
	le := binary.LittleEndian
	return IndexComponentHeader{
		Version: le.Uint32(b[0:4]),
		Groups:  le.Uint32(b[4:8]),
	}, nil
}

func (h IndexComponentHeader) AppendBinary(b []byte) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, h.Version)
	return le.AppendUint32(b, h.Groups)
}

func (h IndexComponentHeader) Bytes() []byte {
	return h.AppendBinary(make([]byte, 0, IndexComponentHeaderSize))
}

// Encoding is the 4-byte tag naming how a group's entries are stored.
// Unrecognized tags are kept as read.
type Encoding [4]byte

var (
	EncodingNone   = Encoding{'n', 'o', 'n', 'e'}
	EncodingBrotli = Encoding{'b', 'r', 'o', 't'}
)

func (e Encoding) Known() bool {
	return e == EncodingNone || e == EncodingBrotli
}

func (e Encoding) String() string {
	n := len(e)
	for n > 0 && e[n-1] == 0 {
		n--
	}
	return string(e[:n])
}

// IndexGroupHeader describes Length entries stored at Offset.
type IndexGroupHeader struct {
	Offset   uint64
	Encoding Encoding
	Length   uint8
}

func ParseIndexGroupHeader(b []byte) (IndexGroupHeader, error) {
	if err := need(b, IndexGroupHeaderSize, "index group header"); err != nil {
		return IndexGroupHeader{}, err
	}
	var g IndexGroupHeader
	g.Offset = binary.LittleEndian.Uint64(b[0:8])
	copy(g.Encoding[:], b[8:12])
	g.Length = b[12]
	return g, nil
}

func (g IndexGroupHeader) AppendBinary(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, g.Offset)
	b = append(b, g.Encoding[:]...)
	return append(b, g.Length, 0, 0, 0)
}

func (g IndexGroupHeader) Bytes() []byte {
	return g.AppendBinary(make([]byte, 0, IndexGroupHeaderSize))
}

// IndexEntry locates one region by absolute offset.
type IndexEntry struct {
	RegionID uuid.UUID
	Offset   uint32
	Size     uint32
}

func ParseIndexEntry(b []byte) (IndexEntry, error) {
	if err := need(b, IndexEntrySize, "index entry"); err != nil {
		return IndexEntry{}, err
	}
	le := binary.LittleEndian
	return IndexEntry{
		RegionID: daicon.UUIDFromBytesLE(b[0:16]),
		Offset:   le.Uint32(b[16:20]),
		Size:     le.Uint32(b[20:24]),
	}, nil
}

func (e IndexEntry) AppendBinary(b []byte) []byte {
	id := daicon.UUIDToBytesLE(e.RegionID)
	b = append(b, id[:]...)
	le := binary.LittleEndian
	b = le.AppendUint32(b, e.Offset)
	return le.AppendUint32(b, e.Size)
}

func (e IndexEntry) Bytes() []byte {
	return e.AppendBinary(make([]byte, 0, IndexEntrySize))
}
