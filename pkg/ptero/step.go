package ptero

import (
	"stewart/pkg/actor"
)

// readRegion reads one byte range and converts the result into a reply.
type readRegion[R any] struct {
	reply   actor.Sender[R]
	convert func(IOResult) R
}

func readThen[R any](starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], start, length uint64, reply actor.Sender[R], convert func(IOResult) R) {
	actor.Spawn(starter, func(self actor.Sender[IOResult]) (actor.IActor[IOResult], error) {
		pkg.Send(Read{Start: start, Length: length, Reply: self})
		return &readRegion[R]{reply: reply, convert: convert}, nil
	})
}

func (a *readRegion[R]) Handle(res IOResult) (actor.Next, error) {
	a.reply.Send(a.convert(res))
	return actor.Stop, nil
}

// writeBatch issues a set of writes and replies once all of them are
// acknowledged, with the first error seen.
type writeBatch[R any] struct {
	pending int
	err     error
	reply   actor.Sender[R]
	convert func(error) R
}

func writeAll[R any](starter actor.Sender[actor.StartActor], pkg actor.Sender[ReadWrite], writes []Write, reply actor.Sender[R], convert func(error) R) {
	if len(writes) == 0 {
		reply.Send(convert(nil))
		return
	}
	actor.Spawn(starter, func(self actor.Sender[IOResult]) (actor.IActor[IOResult], error) {
		for _, w := range writes {
			w.Reply = self
			pkg.Send(w)
		}
		return &writeBatch[R]{pending: len(writes), reply: reply, convert: convert}, nil
	})
}

func (a *writeBatch[R]) Handle(res IOResult) (actor.Next, error) {
	if res.Err != nil && a.err == nil {
		a.err = res.Err
	}
	a.pending--
	if a.pending > 0 {
		return actor.Continue, nil
	}
	a.reply.Send(a.convert(a.err))
	return actor.Stop, nil
}
