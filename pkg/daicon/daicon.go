// Package daicon reads and writes the fixed-layout little-endian records of
// the daicon container format: the file signature, the component table header
// and its component entries.
//
// Values are decoded into plain structs; nothing aliases the input buffer.
package daicon

import (
	"bytes"

	"github.com/pkg/errors"
)

// Signature prefixes every daicon file.
var Signature = [SignatureSize]byte{0xFF, 'd', 'a', 'i', 'c', 'o', 'n', '0'}

const (
	SignatureSize            = 8
	ComponentTableHeaderSize = 24
	ComponentEntrySize       = 24
	RegionDataSize           = 8

	// HeaderOffset is where the first component table header starts.
	HeaderOffset = SignatureSize
	// EntriesOffset is where the first table's entries start.
	EntriesOffset = HeaderOffset + ComponentTableHeaderSize
)

var (
	ErrInvalidSignature = errors.New("invalid package signature")
	ErrShortBuffer      = errors.New("buffer too short")
)

// CheckSignature validates the first SignatureSize bytes of b.
func CheckSignature(b []byte) error {
	if len(b) < SignatureSize {
		return errors.Wrapf(ErrShortBuffer, "signature needs %d bytes, got %d", SignatureSize, len(b))
	}
	if !bytes.Equal(b[:SignatureSize], Signature[:]) {
		return errors.Wrapf(ErrInvalidSignature, "got %q", b[:SignatureSize])
	}
	return nil
}

func need(b []byte, n int, what string) error {
	if len(b) < n {
		return errors.Wrapf(ErrShortBuffer, "%s needs %d bytes, got %d", what, n, len(b))
	}
	return nil
}
