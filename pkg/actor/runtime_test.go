package actor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]Option{WithLogger(zap.New(core))}, opts...)
	return New(opts...), logs
}

func errorLogs(logs *observer.ObservedLogs) *observer.ObservedLogs {
	return logs.FilterLevelExact(zapcore.ErrorLevel)
}

// recorder collects every message it handles.
type recorder[M any] struct {
	got []M
}

func (r *recorder[M]) Handle(msg M) (Next, error) {
	r.got = append(r.got, msg)
	return Continue, nil
}

func spawnRecorder[M any](t *testing.T, r *Runtime) (Sender[M], *recorder[M]) {
	t.Helper()
	rec := &recorder[M]{}
	var self Sender[M]
	Spawn(r.Starter(), func(s Sender[M]) (IActor[M], error) {
		self = s
		return rec, nil
	})
	r.Drain()
	require.False(t, self.IsZero(), "factory did not run")
	return self, rec
}

func TestRuntime_spawnBeforeVisible(t *testing.T) {
	r, logs := newTestRuntime(t)

	s, rec := spawnRecorder[string](t, r)
	require.Equal(t, 2, r.Len())

	s.Send("hello")
	require.Equal(t, 1, r.Drain())

	require.Equal(t, []string{"hello"}, rec.got)
	require.Zero(t, errorLogs(logs).Len())
}

func TestRuntime_factorySendsToSelf(t *testing.T) {
	r, logs := newTestRuntime(t)

	rec := &recorder[int]{}
	Spawn(r.Starter(), func(self Sender[int]) (IActor[int], error) {
		self.Send(1)
		self.Send(2)
		return rec, nil
	})
	r.Drain()

	require.Equal(t, []int{1, 2}, rec.got)
	require.Zero(t, errorLogs(logs).Len())
}

func TestRuntime_factoryHandsOutAddress(t *testing.T) {
	r, _ := newTestRuntime(t)

	registry, reg := spawnRecorder[Address[string]](t, r)

	var self Sender[string]
	Spawn(r.Starter(), func(s Sender[string]) (IActor[string], error) {
		self = s
		registry.Send(s.Address())
		return &recorder[string]{}, nil
	})
	r.Drain()

	require.Len(t, reg.got, 1)
	require.Equal(t, self.Address(), reg.got[0])
	require.Equal(t, self, Bind(r.Dispatcher(), reg.got[0]))
}

func TestRuntime_fifo(t *testing.T) {
	r, _ := newTestRuntime(t)
	s, rec := spawnRecorder[int](t, r)

	want := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		s.Send(i)
		want = append(want, i)
	}
	require.Equal(t, 100, r.Pending())
	require.Equal(t, 100, r.Drain())
	require.Equal(t, want, rec.got)
	require.Zero(t, r.Pending())
}

func TestRuntime_stopTerminates(t *testing.T) {
	r, logs := newTestRuntime(t)

	var calls int
	var self Sender[int]
	Spawn(r.Starter(), func(s Sender[int]) (IActor[int], error) {
		self = s
		return HandlerFunc[int](func(int) (Next, error) {
			calls++
			return Stop, nil
		}), nil
	})
	r.Drain()
	require.Equal(t, 2, r.Len())

	self.Send(1)
	self.Send(2)
	self.Send(3)
	r.Drain()

	require.Equal(t, 1, calls)
	require.Equal(t, 1, r.Len())
	require.Equal(t, 2, logs.FilterMessage("failed to find actor for address").Len())
	require.Equal(t, 1, logs.FilterMessage("actor stopped").Len())
}

func TestRuntime_idReuse(t *testing.T) {
	t.Run("generations", func(t *testing.T) {
		r, logs := newTestRuntime(t)

		old := Register[int](r, HandlerFunc[int](func(int) (Next, error) { return Stop, nil }))
		old.Send(0)
		r.Drain()

		fresh, rec := spawnRecorder[int](t, r)
		require.Equal(t, old.ID().Index(), fresh.ID().Index())
		require.NotEqual(t, old.ID(), fresh.ID())

		old.Send(1)
		r.Drain()
		require.Empty(t, rec.got, "stale sender must not reach the new actor")
		require.Equal(t, 1, logs.FilterMessage("failed to find actor for address").Len())
	})

	t.Run("raw", func(t *testing.T) {
		r, logs := newTestRuntime(t, WithGenerations(false))

		old := Register[int](r, HandlerFunc[int](func(int) (Next, error) { return Stop, nil }))
		old.Send(0)
		r.Drain()

		fresh, rec := spawnRecorder[int](t, r)
		require.Equal(t, old.ID(), fresh.ID())

		old.Send(1)
		r.Drain()
		require.Equal(t, []int{1}, rec.got, "raw ids deliver stale sends to the new actor")
		require.Zero(t, errorLogs(logs).Len())
	})
}

func TestRuntime_downcastSafety(t *testing.T) {
	r, logs := newTestRuntime(t)
	s, rec := spawnRecorder[int](t, r)

	wrong := newSender[string](s.ID(), r.Dispatcher())
	require.NotPanics(t, func() {
		wrong.Send("not an int")
		r.Drain()
	})

	mismatches := logs.FilterMessage("failed to downcast message")
	require.Equal(t, 1, mismatches.Len())
	require.Equal(t, 1, errorLogs(logs).Len())
	require.Equal(t, "*actor.recorder[int]", mismatches.All()[0].ContextMap()["actor"])

	s.Send(7)
	r.Drain()
	require.Equal(t, []int{7}, rec.got)
	require.Equal(t, 2, r.Len())
}

func TestRuntime_nilInterfaceMessage(t *testing.T) {
	r, logs := newTestRuntime(t)
	s, rec := spawnRecorder[error](t, r)

	s.Send(nil)
	s.Send(errors.New("boom"))
	r.Drain()

	require.Len(t, rec.got, 2)
	require.Nil(t, rec.got[0])
	require.EqualError(t, rec.got[1], "boom")
	require.Zero(t, errorLogs(logs).Len())
}

func TestRuntime_idempotentDrain(t *testing.T) {
	r, _ := newTestRuntime(t)

	done := make(chan int)
	go func() { done <- r.Drain() }()

	select {
	case n := <-done:
		require.Zero(t, n)
	case <-time.After(time.Second):
		t.Fatal("drain blocked on empty queue")
	}
	require.Zero(t, r.Drain())
}

func TestRuntime_reentrantDrain(t *testing.T) {
	r, _ := newTestRuntime(t)

	var inner = -1
	s := Register[int](r, HandlerFunc[int](func(int) (Next, error) {
		inner = r.Drain()
		return Continue, nil
	}))
	s.Send(1)
	require.Equal(t, 1, r.Drain())
	require.Zero(t, inner, "nested drain must not run handlers")
}

func TestRuntime_factoryError(t *testing.T) {
	r, logs := newTestRuntime(t)

	var failed Sender[int]
	Spawn(r.Starter(), func(self Sender[int]) (IActor[int], error) {
		failed = self
		self.Send(1)
		return nil, errors.New("no disk")
	})
	r.Drain()

	require.Equal(t, 1, r.Len(), "only the starter remains")
	factory := logs.FilterMessage("actor factory failed")
	require.Equal(t, 1, factory.Len())
	require.Equal(t, 1, logs.FilterMessage("failed to find actor for address").Len())

	// the released reservation is reused
	next, _ := spawnRecorder[int](t, r)
	require.Equal(t, failed.ID().Index(), next.ID().Index())
}

func TestRuntime_factoryPanicAndNil(t *testing.T) {
	r, logs := newTestRuntime(t)

	Spawn(r.Starter(), func(Sender[int]) (IActor[int], error) {
		panic("factory exploded")
	})
	Spawn(r.Starter(), func(Sender[int]) (IActor[int], error) {
		return nil, nil
	})
	r.Starter().Send(StartActor{})
	r.Starter().Send(NewStartActor[int](nil))
	r.Drain()

	require.Equal(t, 1, r.Len())
	factory := logs.FilterMessage("actor factory failed").All()
	require.Len(t, factory, 4)
	require.ErrorIs(t, factory[0].Context[2].Interface.(error), ErrFactoryFailed)
	require.ErrorIs(t, factory[1].Context[2].Interface.(error), ErrActorIsNil)
	require.ErrorIs(t, factory[2].Context[2].Interface.(error), ErrFactoryIsNil)
	require.ErrorIs(t, factory[3].Context[2].Interface.(error), ErrFactoryIsNil)
}

func TestRuntime_handlerErrorKeepsActor(t *testing.T) {
	r, logs := newTestRuntime(t)

	var calls int
	s := Register[int](r, HandlerFunc[int](func(n int) (Next, error) {
		calls++
		if n == 0 {
			return Stop, errors.New("bad input")
		}
		return Continue, nil
	}))

	s.Send(0)
	s.Send(1)
	r.Drain()

	require.Equal(t, 2, calls, "an error is treated as continue, even with Stop")
	require.Equal(t, 1, logs.FilterMessage("error in handler").Len())
	require.Equal(t, 2, r.Len())
}

func TestRuntime_handlerPanicKeepsActor(t *testing.T) {
	r, logs := newTestRuntime(t)

	var calls int
	s := Register[int](r, HandlerFunc[int](func(n int) (Next, error) {
		calls++
		if n == 0 {
			panic("handler exploded")
		}
		return Continue, nil
	}))

	s.Send(0)
	s.Send(1)
	r.Drain()

	require.Equal(t, 2, calls)
	require.Equal(t, 1, logs.FilterMessage("actor panicked").Len())
	require.Equal(t, 1, errorLogs(logs).Len())
}

func TestRuntime_independentRuntimes(t *testing.T) {
	a, _ := newTestRuntime(t)
	b, logs := newTestRuntime(t)

	sa, rec := spawnRecorder[int](t, a)

	// same id, other runtime: not delivered there
	Bind(b.Dispatcher(), sa.Address()).Send(1)
	b.Drain()
	a.Drain()

	require.Empty(t, rec.got)
	require.Equal(t, 1, logs.FilterMessage("failed to find actor for address").Len())
}

func TestSender_zero(t *testing.T) {
	var s Sender[int]
	require.True(t, s.IsZero())
	require.NotPanics(t, func() { s.Send(1) })
}

func TestRuntime_run(t *testing.T) {
	r, _ := newTestRuntime(t)

	var got atomic.Int64
	s := Register[int](r, HandlerFunc[int](func(n int) (Next, error) {
		got.Add(int64(n))
		return Continue, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				s.Send(1)
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return got.Load() == 1000 }, 5*time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRuntime_pool(t *testing.T) {
	pool, err := ants.NewPool(1)
	require.NoError(t, err)
	defer pool.Release()

	r, _ := newTestRuntime(t, WithPool(pool), WithThroughput(16))

	var (
		got     atomic.Int64
		running atomic.Int32
		overlap atomic.Bool
	)
	s := Register[int](r, HandlerFunc[int](func(n int) (Next, error) {
		if running.Add(1) > 1 {
			overlap.Store(true)
		}
		got.Add(int64(n))
		running.Add(-1)
		return Continue, nil
	}))

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				s.Send(1)
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return got.Load() == 4000 }, 5*time.Second, 5*time.Millisecond)
	require.False(t, overlap.Load(), "handlers overlapped")
}

func TestNext_String(t *testing.T) {
	require.Equal(t, "continue", Continue.String())
	require.Equal(t, "stop", Stop.String())
	require.Equal(t, "unknown", Next(9).String())
}
