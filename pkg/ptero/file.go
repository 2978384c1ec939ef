package ptero

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"stewart/pkg/actor"
	"stewart/pkg/glog"
)

// OpenResult carries the sender of a freshly opened file package.
type OpenResult struct {
	Package actor.Sender[ReadWrite]
	Err     error
}

type filePackage struct {
	f *os.File
}

// OpenFile spawns an I/O actor over the file at path and replies with its
// sender once the file is open. With create set the file is created or
// truncated.
func OpenFile(starter actor.Sender[actor.StartActor], path string, create bool, reply actor.Sender[OpenResult]) {
	actor.Spawn(starter, func(self actor.Sender[ReadWrite]) (actor.IActor[ReadWrite], error) {
		flag := os.O_RDWR
		if create {
			flag |= os.O_CREATE | os.O_TRUNC
		}
		f, err := os.OpenFile(path, flag, 0o644)
		if err != nil {
			err = errors.Wrap(err, "failed to open package")
			reply.Send(OpenResult{Err: err})
			return nil, err
		}
		reply.Send(OpenResult{Package: self})
		return &filePackage{f: f}, nil
	})
}

func (p *filePackage) Handle(msg ReadWrite) (actor.Next, error) {
	switch m := msg.(type) {
	case Read:
		info, err := p.f.Stat()
		if err != nil {
			m.Reply.Send(IOResult{Err: errors.Wrap(err, "package stat")})
			return actor.Continue, nil
		}
		size := uint64(info.Size())
		if end := m.Start + m.Length; end < m.Start || end > size {
			m.Reply.Send(IOResult{Err: errors.Wrapf(ErrShortRead, "read %d bytes at %d, package is %d bytes", m.Length, m.Start, size)})
			return actor.Continue, nil
		}
		data := make([]byte, m.Length)
		if _, err := p.f.ReadAt(data, int64(m.Start)); err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.Wrapf(ErrShortRead, "read %d bytes at %d", m.Length, m.Start)
			}
			m.Reply.Send(IOResult{Err: err})
			return actor.Continue, nil
		}
		m.Reply.Send(IOResult{Data: data})
	case Write:
		_, err := p.f.WriteAt(m.Data, int64(m.Start))
		m.Reply.Send(IOResult{Err: err})
		if err != nil {
			return actor.Continue, errors.Wrap(err, "package write")
		}
	case Close:
		if err := p.f.Close(); err != nil {
			glog.Error("failed to close package", zap.String("path", p.f.Name()), zap.Error(err))
		}
		return actor.Stop, nil
	}
	return actor.Continue, nil
}
