// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"sync"
	"unsafe"
)

type lockedAllocator struct {
	mtx sync.Mutex
	a   Allocator
}

// NewLockedAllocator wraps a so that it is safe to serve arrays and
// builders used from multiple goroutines. Only the allocator itself
// is synchronized; the containers drawing from it still follow the
// usual rule that content mutation needs external serialization.
func NewLockedAllocator(a Allocator) Allocator {
	return &lockedAllocator{a: a}
}

// Alloc satisfies the Allocator interface.
func (l *lockedAllocator) Alloc(size, alignment uintptr) unsafe.Pointer {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.a == nil {
		return nil
	}
	return l.a.Alloc(size, alignment)
}

// Reset satisfies the Allocator interface.
func (l *lockedAllocator) Reset() {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.a == nil {
		return
	}
	l.a.Reset()
}

// Release satisfies the Allocator interface.
func (l *lockedAllocator) Release() {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.a == nil {
		return
	}
	l.a.Release()
}

// Len satisfies the Allocator interface.
func (l *lockedAllocator) Len() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.a == nil {
		return 0
	}
	return l.a.Len()
}

// Cap satisfies the Allocator interface.
func (l *lockedAllocator) Cap() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.a == nil {
		return 0
	}
	return l.a.Cap()
}

// Peak satisfies the Allocator interface.
func (l *lockedAllocator) Peak() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.a == nil {
		return 0
	}
	return l.a.Peak()
}
