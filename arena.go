// SPDX-License-Identifier: Apache-2.0

package stackarena

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrExhausted reports that an arena's remaining capacity cannot
	// satisfy a padded and rounded allocation request. Arenas are
	// fixed-capacity: this is never retried or recovered by growing.
	ErrExhausted = errors.New("stackarena: arena exhausted")

	// ErrConfig reports an unrecoverable misconfiguration detected
	// during Init or context lookup, such as an exhausted pool or an
	// explicit size request with nowhere to source it from.
	ErrConfig = errors.New("stackarena: configuration error")
)

// Arena is a fixed-capacity stack-discipline allocator. The cursor is
// 1-based: top is the index of the first free byte and capacity+1 means
// full. max is the highest value top has ever reached and never
// decreases between resets.
//
// Invariant: 1 <= top <= max <= capacity+1. top only advances in Alloc
// and only rewinds in Release.
//
// An Arena is owned by exactly one execution context and is not safe
// for concurrent use.
type Arena struct {
	words []uint64 // backing storage; word-typed so the base address is defaultAlign-aligned
	buf   []byte   // byte view over words, len == capacity
	top   uintptr
	max   uintptr
	codec BoundsCodec
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithBoundsCodec makes the arena pad and round every allocation so its
// granted bounds are exactly representable under the given encoding.
func WithBoundsCodec(c BoundsCodec) Option {
	return func(a *Arena) {
		a.codec = c
	}
}

// NewArena creates an arena with the given capacity in bytes. The
// capacity is fixed for the arena's lifetime.
func NewArena(capacity int, opts ...Option) *Arena {
	if capacity < 0 {
		capacity = 0
	}
	a := &Arena{
		words: make([]uint64, (capacity+defaultAlign-1)/defaultAlign),
		top:   1,
		max:   1,
	}
	if capacity > 0 {
		a.buf = unsafe.Slice((*byte)(unsafe.Pointer(&a.words[0])), capacity)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// reset rewinds both cursors to the arena's initial state. Called by
// Init when a context is bound or re-bound; the backing bytes are not
// scrubbed.
func (a *Arena) reset() {
	a.top = 1
	a.max = 1
}

// cursorAddr returns the hardware address of the first free byte.
func (a *Arena) cursorAddr() uintptr {
	if len(a.buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(a.buf))) + a.top - 1
}

// Alloc allocates size bytes aligned to alignment (a power of two) and
// returns a slice whose length is the requested size and whose capacity
// is the granted, bounds-representable size. The slice is the bounded
// pointer: indexing past its capacity is rejected by the runtime the
// way capability hardware rejects out-of-bounds access. The requested
// bytes are zeroed.
//
// Alloc fails only with ErrExhausted, either because the padded and
// rounded request exceeds the remaining capacity or because it would
// overflow the cursor's integer range. The cursor is unchanged on
// failure.
func (a *Arena) Alloc(size, alignment uintptr) ([]byte, error) {
	lay, ok := computeLayout(a.codec, a.cursorAddr(), size, alignment)
	if !ok {
		return nil, fmt.Errorf("%w: request of %d bytes overflows cursor range", ErrExhausted, size)
	}
	total := roundUp(lay.padding+lay.size, defaultAlign)

	// Fast path: the request fits below the high-water mark. Otherwise
	// recompute true free space and either fail or raise the mark.
	if a.max-a.top < total {
		free := uintptr(len(a.buf)) - a.top + 1
		if free < total {
			return nil, fmt.Errorf("%w: need %d bytes, %d free of %d", ErrExhausted, total, free, len(a.buf))
		}
		a.max = a.top + total
	}

	off := a.top - 1 + lay.padding
	grant := a.buf[off : off+size : off+lay.size]
	clear(grant)
	a.top += total
	return grant, nil
}

// Len returns the number of bytes currently allocated, including
// padding and rounding.
func (a *Arena) Len() int {
	return int(a.top - 1)
}

// Cap returns the arena's fixed capacity in bytes.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// MaxUsage returns the high-water mark: the largest number of bytes
// ever in use simultaneously since the arena was last bound. It is not
// lowered by Release. Read-only, no side effects.
func (a *Arena) MaxUsage() int {
	return int(a.max - 1)
}
