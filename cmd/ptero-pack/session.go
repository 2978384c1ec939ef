package main

import (
	"time"

	"github.com/panjf2000/ants/v2"

	"stewart/internal/config"
	"stewart/internal/errs"
	"stewart/pkg/actor"
	"stewart/pkg/glog"
	"stewart/pkg/lib/timex"
	"stewart/pkg/ptero"
)

// session owns the runtime a command drives its protocols on.
type session struct {
	rt      *actor.Runtime
	pool    *ants.Pool
	wheel   *timex.Wheel
	timeout time.Duration
}

func newSession(cfg *config.Config, timeout time.Duration) (*session, error) {
	opts, pool, err := cfg.Options(glog.Logger())
	if err != nil {
		return nil, err
	}
	s := &session{rt: actor.New(opts...), pool: pool, timeout: timeout}
	if pool != nil {
		s.wheel = timex.NewWheel(10*time.Millisecond, 64)
	}
	return s, nil
}

func (s *session) close() {
	if s.pool != nil {
		s.wheel.Stop()
		_ = s.pool.ReleaseTimeout(s.timeout)
		return
	}
	s.rt.Drain()
}

// waiter hands the first reply it gets to a channel and stops.
type waiter[R any] struct {
	ch chan R
}

func (w *waiter[R]) Handle(msg R) (actor.Next, error) {
	select {
	case w.ch <- msg:
	default:
	}
	return actor.Stop, nil
}

// await starts a protocol with a fresh reply address and waits for its
// answer. Without a pool the runtime is drained in place; an empty reply box
// afterwards means the protocol stalled. With a pool the wait is bounded by
// the session timeout.
func await[R any](s *session, protocol string, start func(reply actor.Sender[R])) (R, error) {
	var zero R
	ch := make(chan R, 1)
	start(actor.Register[R](s.rt, &waiter[R]{ch: ch}))

	if s.pool == nil {
		s.rt.Drain()
		select {
		case v := <-ch:
			return v, nil
		default:
			return zero, errs.ErrStalled(protocol)
		}
	}

	expired := make(chan struct{})
	timer := s.wheel.AfterFunc(s.timeout, func() { close(expired) })
	defer timer.Stop()
	select {
	case v := <-ch:
		return v, nil
	case <-expired:
		return zero, errs.ErrStalled(protocol)
	}
}

func (s *session) open(path string, create bool) (actor.Sender[ptero.ReadWrite], error) {
	res, err := await(s, "open", func(reply actor.Sender[ptero.OpenResult]) {
		ptero.OpenFile(s.rt.Starter(), path, create, reply)
	})
	if err != nil {
		return actor.Sender[ptero.ReadWrite]{}, err
	}
	return res.Package, res.Err
}
