// Package stackarena implements a per-context bump allocator with
// checkpoint/restore semantics, for values whose size is only known at
// the allocation point and whose lifetime is scoped to an enclosing
// call region.
//
// Each execution context owns exactly one fixed-capacity Arena for its
// lifetime, bound by a Binder either from the context's own storage or
// from a fixed Pool of slots. Allocation bumps a cursor; Mark captures
// the cursor and Release rewinds it, freeing everything allocated in
// between as a single batch. There is no per-allocation free, no
// growth, and no garbage collection: usage must follow strict LIFO
// region discipline.
//
// Because arenas are never shared between concurrently running
// contexts, no operation on an Arena synchronizes. The injectable
// LookupFunc is the one cross-cutting dependency: it decides which
// arena is "current" for a call, and keeping that mapping one-to-one
// is what makes the whole package safe without locks.
//
// On hardware with compressed capability bounds, a BoundsCodec makes
// every allocation padded and rounded so its granted bounds are
// exactly representable and never overlap a neighbouring allocation.
package stackarena
