// Package ptero builds package read and write protocols out of chained
// one-shot actors. Every protocol takes the runtime's starter, the sender of a
// package I/O actor and a reply sender; it answers exactly once on the reply
// sender, carrying either a result or an error.
package ptero

import (
	"github.com/pkg/errors"

	"stewart/pkg/actor"
)

var (
	ErrShortRead       = errors.New("short read")
	ErrWriteOutOfRange = errors.New("write out of range")
)

// ReadWrite is the message type of package I/O actors: Read, Write or Close.
type ReadWrite interface {
	readWrite()
}

// Read asks for Length bytes at Start. A read past the end of the package
// fails with ErrShortRead.
type Read struct {
	Start  uint64
	Length uint64
	Reply  actor.Sender[IOResult]
}

// Write stores Data at Start, growing the package if needed. Reply may be zero.
// A memory package refuses writes ending past MaxMemoryPackageSize with
// ErrWriteOutOfRange.
type Write struct {
	Start uint64
	Data  []byte
	Reply actor.Sender[IOResult]
}

// Close releases the backing storage and stops the I/O actor.
type Close struct{}

func (Read) readWrite()  {}
func (Write) readWrite() {}
func (Close) readWrite() {}

// IOResult answers Read and Write. Data is nil for writes.
type IOResult struct {
	Data []byte
	Err  error
}
