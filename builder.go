// SPDX-License-Identifier: Apache-2.0

package dynarray

// Builder is a single-owner staging area optimized for bulk
// construction. It grows by unconditional doubling regardless of the
// process growth policy, carries no reference count and no lifecycle
// hooks, and is consumed exactly once by ToArray.
//
// Builders are not safe for concurrent use. Element types that own
// external resources should acquire them after materialization: an
// abandoned builder runs no per-element cleanup.
type Builder[T any] struct {
	data     []T // len(data) is the capacity
	length   int
	alloc    Allocator
	consumed bool
}

// NewBuilder creates an empty builder with no allocated storage.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{}
}

// NewBuilderIn creates an empty builder whose storage is drawn from
// alloc. The array it materializes into inherits the allocator.
func NewBuilderIn[T any](alloc Allocator) *Builder[T] {
	return &Builder[T]{alloc: alloc}
}

// Append adds v to the end of the builder.
func (b *Builder[T]) Append(v T) {
	b.checkLive()
	if b.length == len(b.data) {
		b.data = reallocSlice(b.alloc, b.data, b.length, doubleCapacity(len(b.data), b.length+1))
	}
	b.data[b.length] = v
	b.length++
}

// Reserve grows capacity to at least n slots; it never shrinks.
func (b *Builder[T]) Reserve(n int) {
	b.checkLive()
	if n < 0 {
		panic("dynarray: negative capacity")
	}
	if n > len(b.data) {
		b.data = reallocSlice(b.alloc, b.data, b.length, n)
	}
}

// AppendArray bulk-copies all of src's elements into the builder.
// The copies carry no hooks; src is unchanged.
func (b *Builder[T]) AppendArray(src *Array[T]) {
	b.checkLive()
	if src.length == 0 {
		return
	}
	need := b.length + src.length
	if need > len(b.data) {
		b.data = reallocSlice(b.alloc, b.data, b.length, doubleCapacity(len(b.data), need))
	}
	copy(b.data[b.length:], src.data[:src.length])
	b.length = need
}

// Get returns a pointer to the element at index i.
func (b *Builder[T]) Get(i int) *T {
	b.checkLive()
	if i < 0 || i >= b.length {
		panic("dynarray: index out of range")
	}
	return &b.data[i]
}

// Set overwrites the element at index i. Builders carry no destroy
// hook, so the old occupant is simply dropped.
func (b *Builder[T]) Set(i int, v T) {
	b.checkLive()
	if i < 0 || i >= b.length {
		panic("dynarray: index out of range")
	}
	b.data[i] = v
}

// Clear resets the length to zero, keeping capacity.
func (b *Builder[T]) Clear() {
	b.checkLive()
	clearSlots(b.data[:b.length])
	b.length = 0
}

// Len returns the number of appended elements.
func (b *Builder[T]) Len() int {
	b.checkLive()
	return b.length
}

// Cap returns the number of allocated element slots.
func (b *Builder[T]) Cap() int {
	b.checkLive()
	return len(b.data)
}

// ToArray consumes the builder and returns an array holding its
// elements with capacity trimmed to the exact length, one reference,
// and the given hooks attached. The elements are transferred, not
// duplicated: the retain hook does not run over them retroactively.
// The caller's builder handle is always nilled; an empty builder
// materializes into an array with no storage at all.
func ToArray[T any](bp **Builder[T], retain RetainFunc[T], destroy DestroyFunc[T]) *Array[T] {
	if bp == nil || *bp == nil {
		panic("dynarray: ToArray of nil builder")
	}
	b := *bp
	b.checkLive()
	*bp = nil
	b.consumed = true

	a := &Array[T]{
		length:  b.length,
		retain:  retain,
		destroy: destroy,
		alloc:   b.alloc,
	}
	if b.length == len(b.data) {
		a.data = b.data // already exact, transfer the buffer as is
	} else {
		a.data = reallocSlice(b.alloc, b.data, b.length, b.length)
	}
	b.data = nil
	b.length = 0
	a.refs.Store(1)
	return a
}

// DestroyBuilder discards a builder without materializing it and nils
// the caller's handle. No per-element cleanup runs; staged elements
// that own external resources leak, which is why owning types should
// only acquire resources after materialization.
func DestroyBuilder[T any](bp **Builder[T]) {
	if bp == nil || *bp == nil {
		panic("dynarray: destroy of nil builder")
	}
	b := *bp
	*bp = nil
	b.consumed = true
	b.data = nil
	b.length = 0
}

func (b *Builder[T]) checkLive() {
	if b.consumed {
		panic("dynarray: builder used after ToArray or DestroyBuilder")
	}
}
