// SPDX-License-Identifier: Apache-2.0

package stackarena

import "fmt"

// Binding associates one execution context with its arena. A Binding
// starts unbound. The context may supply its own pre-sized arena via
// NewBinding; otherwise Init draws one from the Binder's pool.
type Binding struct {
	arena *Arena
	bound bool
}

// NewBinding returns an unbound Binding. A non-nil arena is the
// context's own storage and will be bound on the first Init; pass nil
// to have Init source an arena from the pool instead.
func NewBinding(arena *Arena) *Binding {
	return &Binding{arena: arena}
}

// Arena returns the bound arena, or nil while the context is unbound.
// The method value b.Arena satisfies LookupFunc.
func (b *Binding) Arena() *Arena {
	if !b.bound {
		return nil
	}
	return b.arena
}

// MaxUsage reports the bound arena's high-water mark, or 0 while
// unbound.
func (b *Binding) MaxUsage() int {
	if !b.bound {
		return 0
	}
	return b.arena.MaxUsage()
}

// Binder runs the unbound-to-bound lifecycle for execution contexts.
// The zero value has no pool: Init then binds only contexts that
// supplied their own arena.
type Binder struct {
	pool *Pool
}

// NewBinder creates a Binder distributing arenas from pool, which may
// be nil when every context brings its own storage.
func NewBinder(pool *Pool) *Binder {
	return &Binder{pool: pool}
}

// Init binds b's context to an arena and resets its cursors. It runs
// once per context before first allocation and may run again later,
// e.g. across retry loops, in which case it only resets the cursors of
// the existing binding. Marks taken before a re-Init are stale and must
// not be released.
//
// An unbound context with its own arena is bound to it. An unbound
// context without one is bound to the next pool slot, provided no
// explicit size was requested (pool slots are statically sized). With
// neither an own arena nor a pool nor a requested size, Init is a
// no-op and the context stays unbound: this package never allocates
// storage on its own initiative.
//
// Failures are ErrConfig and indicate deployment misconfiguration, not
// a transient condition: the pool is exhausted, or a size was requested
// that nothing can supply.
func (bd *Binder) Init(b *Binding, requestedSize int) error {
	if b.bound {
		b.arena.reset()
		return nil
	}
	if b.arena != nil {
		b.arena.reset()
		b.bound = true
		return nil
	}
	if bd == nil || bd.pool == nil || bd.pool.Slots() == 0 {
		if requestedSize > 0 {
			return fmt.Errorf("%w: no pool to source a %d-byte arena from", ErrConfig, requestedSize)
		}
		return nil
	}
	if requestedSize > 0 {
		return fmt.Errorf("%w: pool slots are statically sized, cannot honor explicit size %d", ErrConfig, requestedSize)
	}
	a, ok := bd.pool.AcquireSlot()
	if !ok {
		return fmt.Errorf("%w: arena pool exhausted, all %d slots assigned", ErrConfig, bd.pool.Slots())
	}
	a.reset()
	b.arena = a
	b.bound = true
	return nil
}

// LookupFunc resolves the arena of the calling execution context. It
// takes no arguments: which context is "current" is the embedder's
// notion, be it a worker-struct field, a goroutine-local registry, or a
// single process-wide context. Returning nil means the context has no
// bound arena.
//
// A LookupFunc must never hand the same arena to two concurrently
// running contexts; arenas are unsynchronized by design.
type LookupFunc func() *Arena

// Allocator is the allocation front end. Every call resolves the
// current context's arena through the injected lookup, so the same
// allocator value serves any number of contexts.
type Allocator struct {
	lookup LookupFunc
}

// NewAllocator creates an Allocator using lookup to resolve the calling
// context's arena.
func NewAllocator(lookup LookupFunc) *Allocator {
	return &Allocator{lookup: lookup}
}

func (al *Allocator) arena() (*Arena, error) {
	if al == nil || al.lookup == nil {
		return nil, fmt.Errorf("%w: no context lookup installed", ErrConfig)
	}
	a := al.lookup()
	if a == nil {
		return nil, fmt.Errorf("%w: calling context has no bound arena", ErrConfig)
	}
	return a, nil
}

// Alloc allocates from the current context's arena. See Arena.Alloc.
func (al *Allocator) Alloc(size, alignment uintptr) ([]byte, error) {
	a, err := al.arena()
	if err != nil {
		return nil, err
	}
	return a.Alloc(size, alignment)
}

// Mark checkpoints the current context's arena.
func (al *Allocator) Mark() (Mark, error) {
	a, err := al.arena()
	if err != nil {
		return 0, err
	}
	return a.Mark(), nil
}

// Release rewinds the current context's arena to m.
func (al *Allocator) Release(m Mark) error {
	a, err := al.arena()
	if err != nil {
		return err
	}
	a.Release(m)
	return nil
}

// MaxUsage reports the current context's high-water mark.
func (al *Allocator) MaxUsage() (int, error) {
	a, err := al.arena()
	if err != nil {
		return 0, err
	}
	return a.MaxUsage(), nil
}
