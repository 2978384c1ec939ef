package actor

// Next is the continuation decision returned from every Handle call.
type Next int

const (
	Continue Next = iota
	Stop
)

func (n Next) String() string {
	switch n {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	}
	return "unknown"
}

// IActor handles messages of one type. Handle runs to completion on the
// runtime's draining context and must not block; work that needs to wait is
// requested with a message and its result arrives as a later message.
//
// A non-nil error is logged and the actor is kept, whatever Next says.
type IActor[M any] interface {
	Handle(msg M) (Next, error)
}

// HandlerFunc adapts a function to IActor.
type HandlerFunc[M any] func(msg M) (Next, error)

func (f HandlerFunc[M]) Handle(msg M) (Next, error) {
	return f(msg)
}
