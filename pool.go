package stackarena

import "sync"

// Pool is a fixed set of identically sized arenas distributed to
// execution contexts at Init time. Assignment is monotonic: the
// counter only ever advances and a slot, once handed out, is never
// returned. Sizing policy and the decision to create a pool at all
// belong to the embedding runtime's bootstrap, not to this package.
//
// AcquireSlot is the only place concurrent contexts touch shared
// state, so it is the only operation that takes a lock.
type Pool struct {
	mu    sync.Mutex
	slots []*Arena
	next  int // number of slots assigned so far
}

// NewPool creates a pool of slotCount arenas of slotSize bytes each.
// The options are applied to every slot.
func NewPool(slotCount, slotSize int, opts ...Option) *Pool {
	if slotCount < 0 {
		slotCount = 0
	}
	p := &Pool{slots: make([]*Arena, 0, slotCount)}
	for i := 0; i < slotCount; i++ {
		p.slots = append(p.slots, NewArena(slotSize, opts...))
	}
	return p
}

// AcquireSlot returns the next unassigned arena, or false when every
// slot has been handed out.
func (p *Pool) AcquireSlot() (*Arena, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.next >= len(p.slots) {
		return nil, false
	}
	a := p.slots[p.next]
	p.next++
	return a, true
}

// Slots returns the pool's fixed slot count.
func (p *Pool) Slots() int {
	return len(p.slots)
}

// Assigned returns how many slots have been handed out so far.
func (p *Pool) Assigned() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}
