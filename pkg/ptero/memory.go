package ptero

import (
	"github.com/pkg/errors"

	"stewart/pkg/actor"
)

// MaxMemoryPackageSize caps how far a write may grow a MemoryPackage.
const MaxMemoryPackageSize = 1 << 32

// MemoryPackage is an I/O actor over an in-memory buffer.
type MemoryPackage struct {
	buf []byte
}

var _ actor.IActor[ReadWrite] = (*MemoryPackage)(nil)

func NewMemoryPackage(data []byte) *MemoryPackage {
	return &MemoryPackage{buf: data}
}

// Bytes returns the current contents. Only call it while the runtime is not
// draining.
func (p *MemoryPackage) Bytes() []byte { return p.buf }

func (p *MemoryPackage) Handle(msg ReadWrite) (actor.Next, error) {
	switch m := msg.(type) {
	case Read:
		end := m.Start + m.Length
		if end < m.Start || end > uint64(len(p.buf)) {
			m.Reply.Send(IOResult{Err: errors.Wrapf(ErrShortRead, "read %d bytes at %d, package is %d bytes", m.Length, m.Start, len(p.buf))})
			return actor.Continue, nil
		}
		data := make([]byte, m.Length)
		copy(data, p.buf[m.Start:end])
		m.Reply.Send(IOResult{Data: data})
	case Write:
		end := m.Start + uint64(len(m.Data))
		if end < m.Start || end > MaxMemoryPackageSize {
			m.Reply.Send(IOResult{Err: errors.Wrapf(ErrWriteOutOfRange, "write %d bytes at %d", len(m.Data), m.Start)})
			return actor.Continue, nil
		}
		if end > uint64(len(p.buf)) {
			grown := make([]byte, end)
			copy(grown, p.buf)
			p.buf = grown
		}
		copy(p.buf[m.Start:], m.Data)
		m.Reply.Send(IOResult{})
	case Close:
		return actor.Stop, nil
	}
	return actor.Continue, nil
}
