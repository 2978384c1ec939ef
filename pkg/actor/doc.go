// Package actor is a small message-passing kernel: actors are reachable only
// through typed addresses, and every message goes through one runtime queue
// that a single context drains.
//
// # Addresses and senders
//
// An [Address] names a mailbox for messages of one type. A [Sender] pairs that
// id with the runtime's [IDispatcher] and is the only way to deliver a message:
//
//	counter.Send(Increment{By: 2})
//
// Send never blocks and never fails at the call site. Messages that cannot be
// delivered are logged by the runtime and dropped.
//
// # Spawning
//
// Spawning is two-phase. The starter reserves an id, calls the factory with a
// sender already bound to that id, then installs what the factory returns.
// The factory can therefore hand its own address to other actors before it
// exists:
//
//	actor.Spawn(rt.Starter(), func(self actor.Sender[ReadResult]) (actor.IActor[ReadResult], error) {
//	    pkg.Send(Read{Start: 0, Length: 32, Reply: self})
//	    return &readHeader{}, nil
//	})
//
// If the factory fails the reservation is released and the error is logged.
//
// # Lifecycle
//
// Each delivered message triggers one Handle call. Returning [Stop] removes
// the actor and frees its slot for reuse. Returning an error logs it and keeps
// the actor. Messages of the wrong dynamic type are logged and dropped without
// touching the actor.
//
// # Driving a runtime
//
// [Runtime.Drain] handles messages until the queue is empty. [Runtime.Run]
// does the same whenever messages arrive until its context ends. With
// [WithPool] every send schedules a drain task on an ants pool when the runtime
// is idle. All three keep Handle calls strictly sequential.
package actor
