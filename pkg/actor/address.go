package actor

import (
	"fmt"
)

// ID identifies a slot in a runtime's actor table. The low 32 bits are the
// slot index, the high 32 bits the slot generation.
type ID uint64

func newID(index, gen uint32) ID {
	return ID(uint64(gen)<<32 | uint64(index))
}

func (id ID) Index() uint32      { return uint32(id) }
func (id ID) Generation() uint32 { return uint32(id >> 32) }

func (id ID) String() string {
	return fmt.Sprintf("%d.%d", id.Index(), id.Generation())
}

// IDispatcher accepts a type-erased message for a mailbox id. Each runtime
// backend provides one implementation shared by all of its senders.
type IDispatcher interface {
	SendAny(id ID, msg any)
}

// Address names a mailbox that accepts messages of type M. M only exists at
// compile time; two addresses are equal when their ids are equal.
type Address[M any] struct {
	id ID
}

func (a Address[M]) ID() ID         { return a.id }
func (a Address[M]) String() string { return a.id.String() }

// Sender delivers messages of type M to one address. A Sender is a small value;
// copying it is how it is cloned. Send never blocks and never reports failure:
// misdelivery is logged by the runtime that drains the message.
type Sender[M any] struct {
	id         ID
	dispatcher IDispatcher
}

// newSender binds an id to a dispatcher. Callers get senders from Spawn,
// Register or Bind.
func newSender[M any](id ID, dispatcher IDispatcher) Sender[M] {
	return Sender[M]{id: id, dispatcher: dispatcher}
}

// Bind turns an address back into a sender on the given dispatcher.
func Bind[M any](dispatcher IDispatcher, addr Address[M]) Sender[M] {
	return newSender[M](addr.id, dispatcher)
}

func (s Sender[M]) Send(msg M) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.SendAny(s.id, msg)
}

func (s Sender[M]) ID() ID              { return s.id }
func (s Sender[M]) Address() Address[M] { return Address[M]{id: s.id} }
func (s Sender[M]) IsZero() bool        { return s.dispatcher == nil }
func (s Sender[M]) String() string      { return s.id.String() }
