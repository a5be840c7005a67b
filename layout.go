// SPDX-License-Identifier: Apache-2.0

package stackarena

import "math/bits"

// defaultAlign is the alignment every arena guarantees without padding.
// Backing storage is anchored on a word-aligned buffer and the cursor
// only ever advances in defaultAlign multiples, so any cursor position
// is defaultAlign-aligned in both offset and address terms.
const defaultAlign = 8

// maxLayoutSize caps requested sizes and alignments so that all layout
// arithmetic below is wrap-free. Any real arena capacity is far smaller;
// requests beyond the cap are reported as not satisfiable.
const maxLayoutSize = ^uintptr(0) >> 2

// roundUp rounds n up to the next multiple of align, which must be a
// power of two.
func roundUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// BoundsCodec models a compressed capability-bounds encoding: hardware
// that attaches an address range to every pointer but stores the range
// with a truncated mantissa. A region [base, base+length) is exactly
// representable only when base and length are both multiples of the
// representable alignment for that length. The zero value models
// hardware without bounded pointers: every region is representable and
// no rounding is applied.
type BoundsCodec struct {
	// MantissaBits is the width of the encoding's length mantissa.
	// Lengths below 1<<MantissaBits are exact; longer regions are only
	// representable at an alignment of 1<<(bitlen(length)-MantissaBits).
	MantissaBits uint
}

func (c BoundsCodec) exact() bool { return c.MantissaBits == 0 }

// representableAlign returns the alignment both bounds of a region of
// the given length must satisfy to be exactly representable.
func (c BoundsCodec) representableAlign(length uintptr) uintptr {
	if c.exact() || length < uintptr(1)<<c.MantissaBits {
		return 1
	}
	e := uint(bits.Len(uint(length))) - c.MantissaBits
	return uintptr(1) << e
}

// roundLength rounds length up to the nearest exactly representable
// value. Rounding can carry the length across a power-of-two boundary
// and coarsen the required alignment, so the result is re-checked until
// it is a fixed point (at most one extra iteration in practice).
func (c BoundsCodec) roundLength(length uintptr) uintptr {
	for {
		r := roundUp(length, c.representableAlign(length))
		if r == length {
			return r
		}
		length = r
	}
}

// representable reports whether [base, base+length) survives an
// encode/decode round trip unchanged.
func (c BoundsCodec) representable(base, length uintptr) bool {
	a := c.representableAlign(length)
	return base&(a-1) == 0 && length&(a-1) == 0
}

// layout describes how a single allocation consumes arena space:
// padding bytes are skipped so the granted region starts aligned and
// bounds-representable, then size bytes (>= the request) are granted.
type layout struct {
	padding uintptr
	size    uintptr
}

// computeLayout determines the layout for allocating size bytes at
// rawAddr with the given alignment (a power of two; values below 1 are
// treated as 1). The granted region starts at rawAddr+padding, never
// before rawAddr, and its length is the smallest representable length
// >= size, never rounded down. Returns false when the request is too
// large for the cursor's integer range.
func computeLayout(c BoundsCodec, rawAddr, size, alignment uintptr) (layout, bool) {
	if alignment == 0 {
		alignment = 1
	}
	if size > maxLayoutSize || alignment > maxLayoutSize {
		return layout{}, false
	}

	adjusted := c.roundLength(size)

	// The granted base must satisfy the caller's alignment and, for the
	// bounds encoding, the representable alignment of the granted
	// length. Both are powers of two so the stricter one covers both.
	align := alignment
	if ra := c.representableAlign(adjusted); ra > align {
		align = ra
	}
	start := roundUp(rawAddr, align)

	// Validate both rounding directions: the base may only move forward
	// and the rounded region must decode to exactly itself, otherwise
	// hardware would widen the bounds over a neighbouring allocation.
	if start < rawAddr || adjusted < size || !c.representable(start, adjusted) {
		return layout{}, false
	}
	return layout{padding: start - rawAddr, size: adjusted}, true
}
