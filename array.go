// SPDX-License-Identifier: Apache-2.0

// Package dynarray implements reference-counted growable arrays with
// per-element lifecycle hooks, plus a single-owner builder for bulk
// construction.
//
// An Array[T] is shared by retaining it and given up by releasing it;
// when the last reference is released, every live element's destroy
// hook runs and the backing storage is dropped. A Builder[T] is a
// write-once staging area that is consumed exactly once by ToArray,
// which produces an Array with capacity trimmed to the exact element
// count.
//
// Content mutation is never synchronized by this package: an array
// visible to several goroutines may be retained and released
// concurrently, but pushes, sets and friends must be serialized by
// the caller. Storage can optionally be drawn from an injected
// Allocator such as NewBumpAllocator.
package dynarray

import (
	"sync/atomic"
)

// RetainFunc makes the element it points at an independent owner of
// any resources it references, typically by deep-copying them. It is
// invoked whenever an operation duplicates an element into new
// storage.
type RetainFunc[T any] func(*T)

// DestroyFunc releases resources owned by the element it points at.
// It is invoked exactly once per logical removal of an element from
// storage.
type DestroyFunc[T any] func(*T)

// Array is a reference-counted growable array. Share it with Retain,
// give it up with Release; mutation is in place and unsynchronized.
//
// The zero value is not usable; construct with New or a builder's
// ToArray.
type Array[T any] struct {
	refs    atomic.Int64
	data    []T // len(data) is the capacity; the first length slots are live
	length  int
	retain  RetainFunc[T]
	destroy DestroyFunc[T]
	alloc   Allocator
	initCap int // only meaningful during New
}

// Option configures a new array.
type Option[T any] func(*Array[T])

// WithCapacity pre-sizes the array's storage to n slots.
func WithCapacity[T any](n int) Option[T] {
	if n < 0 {
		panic("dynarray: negative capacity")
	}
	return func(a *Array[T]) {
		a.initCap = n
	}
}

// WithRetain attaches a retain hook, run on every element an
// operation duplicates into the array (Fill, AppendArray, Copy,
// Slice, Concat, Filter). Elements pushed or set directly are
// considered transferred in and are not retained.
func WithRetain[T any](fn RetainFunc[T]) Option[T] {
	return func(a *Array[T]) {
		a.retain = fn
	}
}

// WithDestroy attaches a destroy hook, run exactly once on every
// element logically removed from the array (Set overwrite, Pop,
// Remove, Clear, shrinking Resize, and final Release).
func WithDestroy[T any](fn DestroyFunc[T]) Option[T] {
	return func(a *Array[T]) {
		a.destroy = fn
	}
}

// WithAllocator draws the array's storage from alloc instead of the
// Go heap.
func WithAllocator[T any](alloc Allocator) Option[T] {
	return func(a *Array[T]) {
		a.alloc = alloc
	}
}

// New creates an empty array with one reference.
func New[T any](opts ...Option[T]) *Array[T] {
	a := &Array[T]{}
	for _, opt := range opts {
		opt(a)
	}
	// Storage is allocated after all options have run so that the
	// capacity hint sees the configured allocator.
	a.data = allocSlice[T](a.alloc, a.initCap)
	a.initCap = 0
	a.refs.Store(1)
	return a
}

// Retain increments the reference count and returns the same array.
func (a *Array[T]) Retain() *Array[T] {
	if a.refs.Add(1) <= 1 {
		panic("dynarray: retain of released array")
	}
	return a
}

// Release drops one reference and always nils the caller's handle,
// whether or not the count reached zero; a released handle must never
// be reused, since another releaser may have torn the array down. At
// zero, the destroy hook runs over every live element in index order
// and the storage is dropped.
func Release[T any](arr **Array[T]) {
	if arr == nil || *arr == nil {
		panic("dynarray: release of nil array")
	}
	a := *arr
	*arr = nil

	if a.refs.Add(-1) > 0 {
		return
	}
	if a.destroy != nil {
		for i := 0; i < a.length; i++ {
			a.destroy(&a.data[i])
		}
	}
	a.data = nil
	a.length = 0
}

// Refs returns the current reference count.
func (a *Array[T]) Refs() int {
	return int(a.refs.Load())
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int {
	return a.length
}

// Cap returns the number of allocated element slots.
func (a *Array[T]) Cap() int {
	return len(a.data)
}

// IsEmpty reports whether the array holds no elements.
func (a *Array[T]) IsEmpty() bool {
	return a.length == 0
}

// Get returns a pointer to the element at index i. The pointer is
// valid until the next structural mutation or release.
func (a *Array[T]) Get(i int) *T {
	a.boundsCheck(i)
	return &a.data[i]
}

// Data returns the occupied window of the backing storage for bulk
// access. Like Get's pointer, it is invalidated by the next
// structural mutation or release.
func (a *Array[T]) Data() []T {
	return a.data[:a.length]
}

// Set overwrites the element at index i. The destroy hook, if any,
// runs on the old occupant first so that overwritten elements are
// never leaked. The new value is transferred in, not retained.
func (a *Array[T]) Set(i int, v T) {
	a.boundsCheck(i)
	if a.destroy != nil {
		a.destroy(&a.data[i])
	}
	a.data[i] = v
}

// Push appends v, growing capacity by the process growth policy if
// needed. The value is transferred in, not retained.
func (a *Array[T]) Push(v T) {
	a.ensure(a.length + 1)
	a.data[a.length] = v
	a.length++
}

// Pop removes the last element. If out is non-nil it receives a copy
// of the element before the destroy hook runs on the slot, so a
// caller transferring ownership out of a hook-carrying array must
// detach the value's resources itself (see the package tests for the
// idiom). Popping an empty array is a contract violation.
func (a *Array[T]) Pop(out *T) {
	if a.length == 0 {
		panic("dynarray: pop of empty array")
	}
	a.length--
	if out != nil {
		*out = a.data[a.length]
	}
	if a.destroy != nil {
		a.destroy(&a.data[a.length])
	}
	var zero T
	a.data[a.length] = zero
}

// Peek copies the last element without removing it.
func (a *Array[T]) Peek() T {
	if a.length == 0 {
		panic("dynarray: peek of empty array")
	}
	return a.data[a.length-1]
}

// PeekFirst copies the first element without removing it.
func (a *Array[T]) PeekFirst() T {
	if a.length == 0 {
		panic("dynarray: peek of empty array")
	}
	return a.data[0]
}

// Insert places v at index i, shifting everything at and after i one
// slot right. i == Len() is equivalent to Push.
func (a *Array[T]) Insert(i int, v T) {
	if i < 0 || i > a.length {
		panic("dynarray: index out of range")
	}
	a.ensure(a.length + 1)
	copy(a.data[i+1:a.length+1], a.data[i:a.length])
	a.data[i] = v
	a.length++
}

// Remove deletes the element at index i, shifting everything after it
// one slot left. Out, if non-nil, receives a copy of the element
// before the destroy hook runs, with the same ownership-transfer
// caveat as Pop.
func (a *Array[T]) Remove(i int, out *T) {
	a.boundsCheck(i)
	if out != nil {
		*out = a.data[i]
	}
	if a.destroy != nil {
		a.destroy(&a.data[i])
	}
	copy(a.data[i:a.length-1], a.data[i+1:a.length])
	a.length--
	var zero T
	a.data[a.length] = zero
}

// RemoveRange deletes count elements starting at index start, running
// the destroy hook over them in index order. count may be zero.
func (a *Array[T]) RemoveRange(start, count int) {
	if start < 0 || count < 0 || start+count > a.length {
		panic("dynarray: range out of bounds")
	}
	if count == 0 {
		return
	}
	if a.destroy != nil {
		for i := start; i < start+count; i++ {
			a.destroy(&a.data[i])
		}
	}
	copy(a.data[start:], a.data[start+count:a.length])
	a.length -= count
	clearSlots(a.data[a.length : a.length+count])
}

// Clear removes all elements, running the destroy hook over each in
// index order. Capacity is kept.
func (a *Array[T]) Clear() {
	if a.destroy != nil {
		for i := 0; i < a.length; i++ {
			a.destroy(&a.data[i])
		}
	}
	clearSlots(a.data[:a.length])
	a.length = 0
}

// Resize sets the length to n. Growing zero-fills the new slots
// without running any hook; arrays of resource-owning elements must
// initialize grown slots before anything destroys them. Shrinking
// runs the destroy hook over the dropped slots.
func (a *Array[T]) Resize(n int) {
	if n < 0 {
		panic("dynarray: negative length")
	}
	switch {
	case n > a.length:
		a.Reserve(n)
		// Slots beyond length are always zero, so growth needs no fill.
	case n < a.length:
		if a.destroy != nil {
			for i := n; i < a.length; i++ {
				a.destroy(&a.data[i])
			}
		}
		clearSlots(a.data[n:a.length])
	}
	a.length = n
}

// Reserve grows capacity to at least n slots. It never shrinks and
// never changes the length.
func (a *Array[T]) Reserve(n int) {
	if n < 0 {
		panic("dynarray: negative capacity")
	}
	if n > len(a.data) {
		a.data = reallocSlice(a.alloc, a.data, a.length, n)
	}
}

// Trim shrinks capacity to exactly n slots, which must not cut into
// live elements. Trimming to zero drops the buffer entirely.
func (a *Array[T]) Trim(n int) {
	if n < a.length {
		panic("dynarray: trim below length")
	}
	if n < len(a.data) {
		a.data = reallocSlice(a.alloc, a.data, a.length, n)
	}
}

// Fill appends n copies of v, retaining each copy if a retain hook is
// attached: the array's copies own their resources independently of
// the caller's v.
func (a *Array[T]) Fill(v T, n int) {
	if n < 0 {
		panic("dynarray: negative count")
	}
	a.ensure(a.length + n)
	for i := 0; i < n; i++ {
		a.data[a.length] = v
		if a.retain != nil {
			a.retain(&a.data[a.length])
		}
		a.length++
	}
}

// AppendSlice bulk-appends vals. Like Push, the values are
// transferred in without retaining.
func (a *Array[T]) AppendSlice(vals ...T) {
	if len(vals) == 0 {
		return
	}
	a.ensure(a.length + len(vals))
	copy(a.data[a.length:], vals)
	a.length += len(vals)
}

// AppendArray appends all of src's elements to dst. The copies are
// retained by dst's retain hook, so both arrays own their elements
// independently afterwards.
func AppendArray[T any](dst, src *Array[T]) {
	if src.length == 0 {
		return
	}
	dst.ensure(dst.length + src.length)
	copy(dst.data[dst.length:], src.data[:src.length])
	if dst.retain != nil {
		for i := dst.length; i < dst.length+src.length; i++ {
			dst.retain(&dst.data[i])
		}
	}
	dst.length += src.length
}

// Swap exchanges the elements at i and j in place. i == j is a no-op.
func (a *Array[T]) Swap(i, j int) {
	a.boundsCheck(i)
	a.boundsCheck(j)
	if i == j {
		return
	}
	a.data[i], a.data[j] = a.data[j], a.data[i]
}

// Reverse reverses the element order in place.
func (a *Array[T]) Reverse() {
	for i, j := 0, a.length-1; i < j; i, j = i+1, j-1 {
		a.data[i], a.data[j] = a.data[j], a.data[i]
	}
}

func (a *Array[T]) boundsCheck(i int) {
	if i < 0 || i >= a.length {
		panic("dynarray: index out of range")
	}
}

// ensure grows capacity per the process growth policy until n
// elements fit.
func (a *Array[T]) ensure(n int) {
	if n <= len(a.data) {
		return
	}
	a.data = reallocSlice(a.alloc, a.data, a.length, growCapacity(len(a.data), n))
}

// clearSlots zeroes vacated slots so stale values do not pin heap
// objects and reused slots start from the zero value.
func clearSlots[T any](s []T) {
	var zero T
	for i := range s {
		s[i] = zero
	}
}
