// SPDX-License-Identifier: Apache-2.0

package stackarena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestRoundUp(t *testing.T) {
	require.Equal(t, uintptr(0), roundUp(0, 8))
	require.Equal(t, uintptr(8), roundUp(1, 8))
	require.Equal(t, uintptr(8), roundUp(8, 8))
	require.Equal(t, uintptr(16), roundUp(9, 8))
	require.Equal(t, uintptr(64), roundUp(33, 64))
}

func TestBoundsCodecRepresentableAlign(t *testing.T) {
	c := BoundsCodec{MantissaBits: 8}
	require.Equal(t, uintptr(1), c.representableAlign(0))
	require.Equal(t, uintptr(1), c.representableAlign(255))
	require.Equal(t, uintptr(2), c.representableAlign(256))
	require.Equal(t, uintptr(2), c.representableAlign(511))
	require.Equal(t, uintptr(4), c.representableAlign(512))
	require.Equal(t, uintptr(8192), c.representableAlign(1<<20))

	// Zero value means no bounds hardware: everything is exact.
	exact := BoundsCodec{}
	require.Equal(t, uintptr(1), exact.representableAlign(1<<40))
}

func TestBoundsCodecRoundLength(t *testing.T) {
	c := BoundsCodec{MantissaBits: 4}
	require.Equal(t, uintptr(15), c.roundLength(15))
	require.Equal(t, uintptr(16), c.roundLength(16))
	require.Equal(t, uintptr(18), c.roundLength(17))
	// 31 rounds to 32, which needs alignment 4 and is still a multiple
	// of it: the carry across the power-of-two boundary stays stable.
	require.Equal(t, uintptr(32), c.roundLength(31))
}

func TestBoundsCodecRoundLengthFixedPoint(t *testing.T) {
	for _, m := range []uint{3, 4, 8} {
		c := BoundsCodec{MantissaBits: m}
		for n := uintptr(0); n <= 4096; n++ {
			r := c.roundLength(n)
			require.GreaterOrEqual(t, r, n)
			require.Equal(t, r, c.roundLength(r))
			require.Zero(t, r%c.representableAlign(r))
		}
	}
}

func TestComputeLayoutPlain(t *testing.T) {
	lay, ok := computeLayout(BoundsCodec{}, 0, 10, 8)
	require.True(t, ok)
	require.Equal(t, uintptr(0), lay.padding)
	require.Equal(t, uintptr(10), lay.size)

	// Over-alignment shifts the start forward, never backward.
	lay, ok = computeLayout(BoundsCodec{}, 8, 4, 16)
	require.True(t, ok)
	require.Equal(t, uintptr(8), lay.padding)
	require.Equal(t, uintptr(4), lay.size)

	lay, ok = computeLayout(BoundsCodec{}, 3, 5, 4)
	require.True(t, ok)
	require.Equal(t, uintptr(1), lay.padding)
}

func TestComputeLayoutBounds(t *testing.T) {
	c := BoundsCodec{MantissaBits: 4}

	// Length 100 needs alignment 1<<(7-4) = 8; base 4 moves up to 8
	// and the length rounds to 104.
	lay, ok := computeLayout(c, 4, 100, 1)
	require.True(t, ok)
	require.Equal(t, uintptr(4), lay.padding)
	require.Equal(t, uintptr(104), lay.size)
	require.True(t, c.representable(4+lay.padding, lay.size))
}

func TestComputeLayoutOverflow(t *testing.T) {
	_, ok := computeLayout(BoundsCodec{}, 0, ^uintptr(0), 8)
	require.False(t, ok)
	_, ok = computeLayout(BoundsCodec{}, 0, 8, ^uintptr(0))
	require.False(t, ok)
}

// No overlap under rounding: with a coarse bounds codec, consecutive
// granted regions never intersect even though both base and length are
// rounded.
func TestArenaNoOverlapUnderBoundsRounding(t *testing.T) {
	c := BoundsCodec{MantissaBits: 4}
	a := NewArena(1<<16, WithBoundsCodec(c))

	var prevEnd uintptr
	aligns := []uintptr{1, 8, 16, 32}
	for i := 1; i <= 200; i++ {
		size := uintptr(i*37%509 + 1)
		align := aligns[i%len(aligns)]
		b, err := a.Alloc(size, align)
		require.NoError(t, err)
		require.Len(t, b, int(size))
		require.GreaterOrEqual(t, cap(b), int(size))

		addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
		require.Zero(t, addr%align)
		require.True(t, c.representable(addr, uintptr(cap(b))))
		require.GreaterOrEqual(t, addr, prevEnd)
		prevEnd = addr + uintptr(cap(b))
	}
}
