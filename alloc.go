// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"unsafe"
)

// Allocator is the injectable allocation backend for arrays, builders
// and buffers. A nil Allocator everywhere means plain Go allocation
// via make, which is the default.
//
// An Allocator hands out raw memory and reclaims it in bulk: there is
// no per-object free. Growing a container backed by an Allocator
// allocates a fresh block and abandons the old one until the
// allocator is reset or released.
type Allocator interface {
	// Alloc allocates size bytes aligned to alignment and returns a
	// pointer to zeroed memory, or nil if the allocator cannot serve
	// the request and the caller should fall back to the Go heap.
	Alloc(size, alignment uintptr) unsafe.Pointer

	// Reset invalidates every pointer previously returned by Alloc
	// without returning memory to the system. The allocator can be
	// reused for new allocations.
	Reset()

	// Release returns the allocator's memory to the system. The
	// allocator must not be used afterwards.
	Release()

	// Len returns the total number of bytes currently allocated.
	Len() int

	// Cap returns the total number of bytes the allocator can hand
	// out before it has to grow.
	Cap() int

	// Peak returns the high-water mark of allocated bytes. It is not
	// reset by Reset.
	Peak() int
}

// allocSlice returns a zeroed slice of exactly n elements, drawn from
// a when a is non-nil and from the Go heap otherwise. n == 0 yields a
// nil slice so that the zero-capacity invariant (no capacity, no
// buffer) holds everywhere.
func allocSlice[T any](a Allocator, n int) []T {
	if n == 0 {
		return nil
	}
	if a != nil {
		var x T
		size := uintptr(n) * unsafe.Sizeof(x)
		if ptr := (*T)(a.Alloc(size, unsafe.Alignof(x))); ptr != nil {
			return unsafe.Slice(ptr, n)
		}
	}
	return make([]T, n)
}

// reallocSlice grows or shrinks s to exactly n slots, preserving the
// first keep elements. The allocator has no in-place realloc, so this
// is allocate-and-copy; the old block is left for the allocator (or
// the GC) to reclaim.
func reallocSlice[T any](a Allocator, s []T, keep, n int) []T {
	if n == len(s) {
		return s
	}
	buf := allocSlice[T](a, n)
	if keep > n {
		keep = n
	}
	copy(buf, s[:keep])
	return buf
}
