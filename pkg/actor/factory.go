package actor

import (
	"fmt"
	"runtime/debug"

	"stewart/pkg/lib/grs"
	"stewart/pkg/lib/reflectx"
)

// FactoryFunc builds an actor once its id is reserved. self is already bound
// to that id, so the function may hand it to other actors or capture it before
// the actor it returns exists.
type FactoryFunc[M any] func(self Sender[M]) (IActor[M], error)

// StartActor is the message understood by a runtime's starter address. It
// carries a deferred construction recipe; nothing is created until the
// starter handles it.
type StartActor struct {
	name  string
	build func(id ID, dispatcher IDispatcher) (anyActor, error)
}

// NewStartActor wraps a factory into a start message.
func NewStartActor[M any](fn FactoryFunc[M]) StartActor {
	if fn == nil {
		return StartActor{}
	}
	return StartActor{
		name: reflectx.NameFor[M](),
		build: func(id ID, dispatcher IDispatcher) (anyActor, error) {
			a, err := fn(newSender[M](id, dispatcher))
			if err != nil {
				return nil, err
			}
			if a == nil {
				return nil, ErrActorIsNil
			}
			return erase(a), nil
		},
	}
}

// Spawn sends a start message for fn to starter. The actor exists after the
// starter's runtime drains that message.
func Spawn[M any](starter Sender[StartActor], fn FactoryFunc[M]) {
	starter.Send(NewStartActor(fn))
}

// Message returns the message type name of the actor this recipe builds.
func (s StartActor) Message() string { return s.name }

func (s StartActor) run(id ID, dispatcher IDispatcher) (a anyActor, err error) {
	if s.build == nil {
		return nil, ErrFactoryIsNil
	}
	grs.Try(func() {
		a, err = s.build(id, dispatcher)
	}, func(r any) {
		a = nil
		err = fmt.Errorf("%w: factory panicked: %v\n%s", ErrFactoryFailed, r, debug.Stack())
	})
	return a, err
}

// starter is installed at the first slot of every runtime and performs the
// two-phase spawn for each StartActor it receives.
type starter struct {
	r *Runtime
}

func (s *starter) Handle(msg StartActor) (Next, error) {
	s.r.spawn(msg)
	return Continue, nil
}
