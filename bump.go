// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"unsafe"
)

// defaultBufferSize is the minimum size of a bump allocator buffer (32KB).
const defaultBufferSize = 1024 * 32

type bumpAllocator struct {
	buffers     []*bumpBuffer
	peak        uintptr // high-water mark of allocated bytes
	minSize     uintptr // minimum size for new buffers
	bufferCount int     // number of buffers created up front
}

type bumpBuffer struct {
	ptr    unsafe.Pointer
	offset uintptr
	size   uintptr
}

func newBumpBuffer(size int) *bumpBuffer {
	return &bumpBuffer{size: uintptr(size)}
}

func (b *bumpBuffer) alloc(size, alignment uintptr) (unsafe.Pointer, bool) {
	if b.ptr == nil {
		buf := make([]byte, b.size) // backing memory is allocated lazily
		b.ptr = unsafe.Pointer(unsafe.SliceData(buf))
	}
	alignOffset := uintptr(0)
	for alignedPtr := uintptr(b.ptr) + b.offset; alignedPtr%alignment != 0; alignedPtr++ {
		alignOffset++
	}
	allocSize := size + alignOffset

	if b.size-b.offset < allocSize {
		return nil, false
	}
	ptr := unsafe.Pointer(uintptr(b.ptr) + b.offset + alignOffset)
	b.offset += allocSize

	// The buffer is reused across Reset, so returned memory must be
	// zeroed here. The compiler turns this loop into an optimized
	// runtime.memclrNoHeapPointers call.
	s := unsafe.Slice((*byte)(ptr), size)
	for i := range s {
		s[i] = 0
	}

	return ptr, true
}

func (b *bumpBuffer) reset() {
	b.offset = 0
}

func (b *bumpBuffer) release() {
	b.offset = 0
	b.ptr = nil
}

// BumpOption configures a bump allocator.
type BumpOption func(*bumpAllocator)

// WithBufferSize sets the minimum size of the buffers backing the
// allocator. Allocations larger than this get a dedicated buffer.
func WithBufferSize(size int) BumpOption {
	return func(a *bumpAllocator) {
		a.minSize = uintptr(size)
	}
}

// WithBufferCount sets the number of buffers to create up front.
func WithBufferCount(count int) BumpOption {
	return func(a *bumpAllocator) {
		a.bufferCount = count
	}
}

// NewBumpAllocator returns an Allocator that hands out memory from a
// chain of fixed-size buffers and reclaims it only in bulk, via Reset
// or Release. Without options it starts with one 32KB buffer.
//
// The returned allocator is not safe for concurrent use; wrap it with
// NewLockedAllocator when arrays built from several goroutines share
// it.
func NewBumpAllocator(opts ...BumpOption) Allocator {
	a := &bumpAllocator{
		minSize:     defaultBufferSize,
		bufferCount: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	for i := 0; i < a.bufferCount; i++ {
		a.buffers = append(a.buffers, newBumpBuffer(int(a.minSize)))
	}
	return a
}

// Alloc satisfies the Allocator interface.
func (a *bumpAllocator) Alloc(size, alignment uintptr) unsafe.Pointer {
	for i := 0; i < len(a.buffers); i++ {
		ptr, ok := a.buffers[i].alloc(size, alignment)
		if ok {
			if l := a.len(); l > a.peak {
				a.peak = l
			}
			return ptr
		}
	}

	// No buffer has room; chain a new one, at least minSize but large
	// enough for this allocation plus worst-case alignment padding.
	newSize := size + alignment
	if newSize < a.minSize {
		newSize = a.minSize
	}
	buf := newBumpBuffer(int(newSize))
	a.buffers = append(a.buffers, buf)

	ptr, ok := buf.alloc(size, alignment)
	if !ok {
		panic("dynarray: allocation does not fit a fresh buffer")
	}
	if l := a.len(); l > a.peak {
		a.peak = l
	}
	return ptr
}

// Reset satisfies the Allocator interface.
func (a *bumpAllocator) Reset() {
	for _, b := range a.buffers {
		b.reset()
	}
}

// Release satisfies the Allocator interface.
func (a *bumpAllocator) Release() {
	for _, b := range a.buffers {
		b.release()
	}
}

func (a *bumpAllocator) len() uintptr {
	var total uintptr
	for _, b := range a.buffers {
		total += b.offset
	}
	return total
}

// Len satisfies the Allocator interface.
func (a *bumpAllocator) Len() int {
	return int(a.len())
}

// Cap satisfies the Allocator interface.
func (a *bumpAllocator) Cap() int {
	var total uintptr
	for _, b := range a.buffers {
		total += b.size
	}
	return int(total)
}

// Peak satisfies the Allocator interface.
func (a *bumpAllocator) Peak() int {
	return int(a.peak)
}
