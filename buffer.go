// SPDX-License-Identifier: Apache-2.0

package stackarena

import "io"

// Buffer is a scratch byte buffer whose storage lives in an arena
// region. It captures a mark at creation; Close releases that mark,
// handing every byte the buffer consumed (including backing arrays
// abandoned while growing) back to the arena in one step.
//
// Buffers nest like regions do: close them in reverse creation order.
// Bytes returned by Bytes are invalid after Close.
type Buffer struct {
	arena *Arena
	mark  Mark
	buf   []byte
}

var (
	_ io.Writer       = (*Buffer)(nil)
	_ io.StringWriter = (*Buffer)(nil)
	_ io.ByteWriter   = (*Buffer)(nil)
)

// NewBuffer creates a Buffer scoped to a new region of a.
func NewBuffer(a *Arena) *Buffer {
	return &Buffer{arena: a, mark: a.Mark()}
}

// Write appends p to the buffer, growing through the arena.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var err error
	b.buf, err = SliceAppend(b.arena, b.buf, p...)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString appends s to the buffer.
func (b *Buffer) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	var err error
	b.buf, err = SliceAppend(b.arena, b.buf, []byte(s)...)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteByte appends a single byte to the buffer.
func (b *Buffer) WriteByte(c byte) error {
	var err error
	b.buf, err = SliceAppend(b.arena, b.buf, c)
	return err
}

// Bytes returns the written bytes. The slice points into the arena and
// is only valid until Close.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// String copies the written bytes out of the arena, so the result
// remains valid after Close.
func (b *Buffer) String() string {
	return string(b.buf)
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Close releases the buffer's region. Everything allocated from the
// arena since the buffer was created is discarded, so any inner
// regions must be closed first. Close is idempotent.
func (b *Buffer) Close() error {
	if b.arena == nil {
		return nil
	}
	b.arena.Release(b.mark)
	b.arena = nil
	b.buf = nil
	return nil
}
