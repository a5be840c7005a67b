// SPDX-License-Identifier: Apache-2.0

package stackarena

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWrite(t *testing.T) {
	a := NewArena(4096)
	b := NewBuffer(a)

	n, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	n, err = b.WriteString(", world")
	require.NoError(t, err)
	require.Equal(t, 7, n)

	require.NoError(t, b.WriteByte('!'))

	assert.Equal(t, "hello, world!", b.String())
	assert.Equal(t, []byte("hello, world!"), b.Bytes())
	assert.Equal(t, 13, b.Len())

	n, err = b.Write(nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBufferCloseReleasesRegion(t *testing.T) {
	a := NewArena(8192)
	_, err := a.Alloc(32, 8)
	require.NoError(t, err)
	before := a.Len()

	b := NewBuffer(a)
	_, err = fmt.Fprintf(b, "%d bottles of beer", 99)
	require.NoError(t, err)
	require.Greater(t, a.Len(), before)

	s := b.String() // copied out, survives Close

	require.NoError(t, b.Close())
	require.Equal(t, before, a.Len())
	require.Equal(t, "99 bottles of beer", s)
	require.Greater(t, a.MaxUsage(), before)
}

func TestBufferNested(t *testing.T) {
	a := NewArena(8192)

	outer := NewBuffer(a)
	_, err := outer.WriteString("outer")
	require.NoError(t, err)

	inner := NewBuffer(a)
	_, err = inner.WriteString("inner")
	require.NoError(t, err)
	require.Equal(t, "inner", inner.String())

	// LIFO: inner closes first, outer's bytes stay intact.
	require.NoError(t, inner.Close())
	require.Equal(t, "outer", outer.String())
	require.NoError(t, outer.Close())
	require.Equal(t, 0, a.Len())
}

func TestBufferCloseIdempotent(t *testing.T) {
	a := NewArena(1024)
	b := NewBuffer(a)
	_, err := b.WriteString("x")
	require.NoError(t, err)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	require.Equal(t, 0, a.Len())
}

func TestBufferExhausted(t *testing.T) {
	a := NewArena(8)
	b := NewBuffer(a)
	_, err := b.Write(make([]byte, 64))
	require.ErrorIs(t, err, ErrExhausted)
}
