package actor

import (
	"stewart/pkg/lib/reflectx"
)

// anyActor is the uniform shape the runtime stores in its table. Each concrete
// IActor[M] is wrapped by typedActor[M], which downcasts the boxed payload.
type anyActor interface {
	handleAny(msg any) (Next, error)
	typeName() string
	messageName() string
}

type typedActor[M any] struct {
	actor IActor[M]
	name  string
}

func erase[M any](a IActor[M]) anyActor {
	return &typedActor[M]{actor: a, name: reflectx.NameOf(a)}
}

// handleAny returns ErrMessageTypeMismatch with Continue when msg is not an M;
// the actor is left untouched.
func (t *typedActor[M]) handleAny(msg any) (Next, error) {
	m, ok := msg.(M)
	if !ok && (msg != nil || !isInterface[M]()) {
		return Continue, errTypeMismatch(t.messageName(), reflectx.NameOf(msg))
	}
	return t.actor.Handle(m)
}

func (t *typedActor[M]) typeName() string    { return t.name }
func (t *typedActor[M]) messageName() string { return reflectx.NameFor[M]() }

// isInterface reports whether the zero M is nil, in which case a nil payload is
// a valid M.
func isInterface[M any]() bool {
	var zero M
	return any(zero) == nil
}
