package actor

import (
	"context"
	"errors"
	"runtime"
	"runtime/debug"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"stewart/pkg/lib/grs"
	"stewart/pkg/lib/mpsc"
	"stewart/pkg/lib/reflectx"
)

const (
	idle int32 = iota
	running
)

// envelope is a queued message and the id it is addressed to.
type envelope struct {
	id  ID
	msg any
}

// Runtime owns an actor table and a message queue. Any number of goroutines
// may send; exactly one context drains at a time, so Handle calls never
// overlap.
type Runtime struct {
	opts    *Options
	log     *zap.Logger
	metrics Metrics

	queue  *mpsc.Queue[envelope]
	actors *table

	dispatcher *dispatcher
	starter    Sender[StartActor]

	state  atomic.Int32
	wakeup chan struct{}
	pool   *ants.Pool
}

type dispatcher struct {
	r *Runtime
}

func (d *dispatcher) SendAny(id ID, msg any) {
	d.r.post(envelope{id: id, msg: msg})
}

// New creates a runtime with its starter actor installed.
func New(options ...Option) *Runtime {
	opts := loadOptions(options...)
	r := &Runtime{
		opts:    opts,
		log:     opts.Logger,
		metrics: opts.Metrics,
		queue:   mpsc.New[envelope](),
		actors:  newTable(opts.Generations),
		wakeup:  make(chan struct{}, 1),
		pool:    opts.Pool,
	}
	r.dispatcher = &dispatcher{r: r}
	r.starter = Register[StartActor](r, &starter{r: r})
	return r
}

// Starter returns the well-known address that accepts StartActor messages.
func (r *Runtime) Starter() Sender[StartActor] { return r.starter }

func (r *Runtime) Dispatcher() IDispatcher { return r.dispatcher }

// Len reports installed actors, the starter included.
func (r *Runtime) Len() int { return r.actors.len() }

// Pending reports queued messages.
func (r *Runtime) Pending() int { return r.queue.Len() }

// Register installs an already constructed actor and returns its sender.
func Register[M any](r *Runtime, a IActor[M]) Sender[M] {
	id := r.actors.reserve()
	erased := erase(a)
	r.actors.install(id, erased)
	r.metrics.ActorSpawned(erased.typeName())
	r.metrics.LiveActors(r.actors.len())
	return newSender[M](id, r.dispatcher)
}

// Drain handles queued messages until the queue is empty, including messages
// sent while draining, and returns how many were handled. It returns 0 at once
// when the queue is empty or another context is already draining.
func (r *Runtime) Drain() int {
	if !r.state.CompareAndSwap(idle, running) {
		return 0
	}
	n := 0
	for {
		n += r.drain(0)
		if !r.reacquire() {
			return n
		}
	}
}

// Run drains whenever messages arrive until ctx is done.
func (r *Runtime) Run(ctx context.Context) error {
	for {
		r.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.wakeup:
		}
	}
}

func (r *Runtime) post(e envelope) {
	r.queue.Push(e)
	r.metrics.QueueDepth(r.queue.Len())
	r.notify()
}

func (r *Runtime) notify() {
	if r.pool != nil {
		r.schedule()
		return
	}
	select {
	case r.wakeup <- struct{}{}:
	default:
	}
}

// schedule submits one drain task to the pool unless a drain is in progress.
func (r *Runtime) schedule() {
	if !r.state.CompareAndSwap(idle, running) {
		return
	}
	if err := r.pool.Submit(r.process); err != nil {
		r.state.Store(idle)
		r.log.Error("failed to schedule drain", zap.Error(err))
	}
}

// process is the pool task. It yields between batches of Throughput messages
// and keeps the drain role until the queue is seen empty after going idle.
func (r *Runtime) process() {
	for {
		if r.drain(r.opts.Throughput) >= r.opts.Throughput {
			runtime.Gosched()
			continue
		}
		if !r.reacquire() {
			return
		}
	}
}

// reacquire marks the runtime idle, then takes the drain role back if a
// producer pushed after the last Pop but lost the race to schedule.
func (r *Runtime) reacquire() bool {
	r.state.Store(idle)
	return !r.queue.Empty() && r.state.CompareAndSwap(idle, running)
}

func (r *Runtime) drain(limit int) int {
	n := 0
	for limit <= 0 || n < limit {
		e, ok := r.queue.Pop()
		if !ok {
			break
		}
		r.deliver(e)
		n++
	}
	if n > 0 {
		r.metrics.QueueDepth(r.queue.Len())
	}
	return n
}

func (r *Runtime) deliver(e envelope) {
	a, err := r.actors.get(e.id)
	if err != nil {
		r.log.Error("failed to find actor for address",
			zap.Stringer("id", e.id),
			zap.String("message", reflectx.NameOf(e.msg)),
			zap.Error(err),
		)
		r.metrics.MessageDropped(dropReason(err))
		return
	}

	timer := r.metrics.MessageDuration(a.typeName())
	next, err := r.invoke(a, e.msg)
	timer.ObserveDuration()

	switch {
	case err == nil:
		r.metrics.MessageProcessed(a.typeName(), OutcomeOK)
	case errors.Is(err, ErrMessageTypeMismatch):
		r.log.Error("failed to downcast message",
			zap.Stringer("id", e.id),
			zap.String("actor", a.typeName()),
			zap.Error(err),
		)
		r.metrics.MessageProcessed(a.typeName(), OutcomeMismatch)
		return
	case errors.Is(err, ErrHandlerPanic):
		r.metrics.MessageProcessed(a.typeName(), OutcomePanic)
		return
	default:
		r.log.Error("error in handler",
			zap.Stringer("id", e.id),
			zap.String("actor", a.typeName()),
			zap.Error(err),
		)
		r.metrics.MessageProcessed(a.typeName(), OutcomeError)
		return
	}

	if next == Stop {
		r.stop(e.id, a)
	}
}

// invoke calls the actor, containing panics so the drain keeps going.
func (r *Runtime) invoke(a anyActor, msg any) (next Next, err error) {
	grs.Try(func() {
		next, err = a.handleAny(msg)
	}, func(rec any) {
		r.log.Error("actor panicked",
			zap.String("actor", a.typeName()),
			zap.Any("recovered", rec),
			zap.ByteString("stack", debug.Stack()),
		)
		next, err = Continue, errPanic(rec)
	})
	return next, err
}

func (r *Runtime) stop(id ID, a anyActor) {
	if _, ok := r.actors.release(id); !ok {
		return
	}
	r.log.Debug("actor stopped", zap.Stringer("id", id), zap.String("actor", a.typeName()))
	r.metrics.ActorStopped(a.typeName())
	r.metrics.LiveActors(r.actors.len())
}

// spawn reserves an id, runs the factory with a sender bound to it and
// installs the result. A failed factory releases the reservation.
func (r *Runtime) spawn(msg StartActor) {
	id := r.actors.reserve()
	r.log.Debug("starting actor", zap.Stringer("id", id), zap.String("message", msg.Message()))

	a, err := msg.run(id, r.dispatcher)
	if err != nil {
		r.actors.release(id)
		r.log.Error("actor factory failed",
			zap.Stringer("id", id),
			zap.String("message", msg.Message()),
			zap.Error(err),
		)
		r.metrics.SpawnFailed(msg.Message())
		return
	}

	r.actors.install(id, a)
	r.metrics.ActorSpawned(a.typeName())
	r.metrics.LiveActors(r.actors.len())
}

func dropReason(err error) string {
	if errors.Is(err, ErrActorNotInstalled) {
		return "not_installed"
	}
	return "not_found"
}
