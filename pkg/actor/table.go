package actor

import (
	"sync"
)

type slotState uint8

const (
	vacant slotState = iota
	reserved
	installed
)

type slot struct {
	gen   uint32
	state slotState
	actor anyActor
}

// table is a dense slab of actors. Removed slots go on a free list and are
// handed out again by the next reservation, most recently freed first.
type table struct {
	mu          sync.Mutex
	slots       []slot
	free        []uint32
	live        int
	generations bool
}

func newTable(generations bool) *table {
	return &table{generations: generations}
}

// reserve claims a slot without an actor in it yet.
func (t *table) reserve() ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot{})
	}
	s := &t.slots[index]
	s.state = reserved
	return newID(index, s.gen)
}

// install publishes a into a slot claimed by reserve.
func (t *table) install(id ID, a anyActor) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.lookup(id)
	if s == nil || s.state != reserved {
		return false
	}
	s.state = installed
	s.actor = a
	t.live++
	return true
}

// release empties a reserved or installed slot and returns it to the free list.
func (t *table) release(id ID) (anyActor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.lookup(id)
	if s == nil || s.state == vacant {
		return nil, false
	}
	a := s.actor
	if s.state == installed {
		t.live--
	}
	s.state = vacant
	s.actor = nil
	if t.generations {
		s.gen++
	}
	t.free = append(t.free, id.Index())
	return a, true
}

func (t *table) get(id ID) (anyActor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.lookup(id)
	if s == nil || s.state == vacant {
		return nil, ErrActorNotFound
	}
	if s.state == reserved {
		return nil, ErrActorNotInstalled
	}
	return s.actor, nil
}

func (t *table) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

func (t *table) lookup(id ID) *slot {
	index := id.Index()
	if int(index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[index]
	if s.gen != id.Generation() {
		return nil
	}
	return s
}
