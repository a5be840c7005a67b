// SPDX-License-Identifier: Apache-2.0

package stackarena

// A Mark is a checkpoint: an opaque snapshot of the arena cursor at the
// time of capture. Releasing to a mark discards every allocation made
// after it as a single batch.
type Mark uintptr

// Mark records the current cursor position. O(1), no side effects.
func (a *Arena) Mark() Mark {
	return Mark(a.top)
}

// Release rewinds the cursor to m. Everything allocated since the mark
// was taken is logically freed at once; the high-water mark is
// untouched and the released bytes are not scrubbed.
//
// m must have been produced by Mark on this arena, and nesting is the
// caller's responsibility: releasing to an outer mark invalidates every
// inner mark. A mark from a different arena is undefined by contract;
// values outside the cursor range are caught here as an assertion.
func (a *Arena) Release(m Mark) {
	if uintptr(m) < 1 || uintptr(m) > uintptr(len(a.buf))+1 {
		panic("stackarena: Release with a mark foreign to this arena")
	}
	a.top = uintptr(m)
}
