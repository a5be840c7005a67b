// SPDX-License-Identifier: Apache-2.0

package stackarena

import (
	"unsafe"
)

const growThreshold = 256

// Allocate returns a pointer to a zeroed T allocated from a. The
// pointee lives until the enclosing region is released; the caller must
// not retain it past that point.
func Allocate[T any](a *Arena) (*T, error) {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return new(T), nil
	}
	b, err := a.Alloc(size, unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), nil
}

// AllocateSlice creates a zeroed slice of T with the given length and
// capacity, backed by the arena. T must not contain pointers into the
// Go heap: the arena's storage is opaque to the garbage collector.
func AllocateSlice[T any](a *Arena, length, capacity int) ([]T, error) {
	if capacity < length {
		capacity = length
	}
	if capacity <= 0 {
		return nil, nil
	}
	var zero T
	elem := unsafe.Sizeof(zero)
	if elem == 0 {
		return make([]T, length, capacity), nil
	}
	b, err := a.Alloc(elem*uintptr(capacity), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	s := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), capacity)
	return s[:length], nil
}

// SliceAppend appends data to s, growing it through the arena when
// capacity runs out. The abandoned smaller backing array stays in the
// region until the next Release; callers that grow a lot should take a
// mark first.
func SliceAppend[T any](a *Arena, s []T, data ...T) ([]T, error) {
	s, err := growSlice(a, s, len(data))
	if err != nil {
		return s, err
	}
	return append(s, data...), nil
}

func growSlice[T any](a *Arena, s []T, dataLen int) ([]T, error) {
	newLen := len(s) + dataLen
	newCap := cap(s)

	if newCap > 0 {
		for newLen > newCap {
			if newCap < growThreshold {
				newCap *= 2
			} else {
				newCap += newCap / 4
			}
		}
	} else {
		newCap = dataLen
	}
	if newCap == cap(s) {
		return s, nil
	}
	s2, err := AllocateSlice[T](a, len(s), newCap)
	if err != nil {
		return s, err
	}
	copy(s2, s)
	return s2, nil
}
