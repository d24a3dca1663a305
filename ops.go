// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"slices"
)

// The constructive operations in this file never mutate their inputs
// and always produce arrays with capacity equal to length. Results
// inherit the source's hooks and allocator, and every element copied
// from a source array is run through the retain hook so the two
// arrays own their elements independently.

// newDerived allocates a result array of exactly n slots carrying
// src's hooks and allocator.
func newDerived[T any](src *Array[T], n int) *Array[T] {
	out := &Array[T]{
		length:  n,
		retain:  src.retain,
		destroy: src.destroy,
		alloc:   src.alloc,
	}
	out.data = allocSlice[T](src.alloc, n)
	out.refs.Store(1)
	return out
}

func retainAll[T any](a *Array[T]) {
	if a.retain == nil {
		return
	}
	for i := 0; i < a.length; i++ {
		a.retain(&a.data[i])
	}
}

// Copy returns an independent duplicate of a.
func Copy[T any](a *Array[T]) *Array[T] {
	out := newDerived(a, a.length)
	copy(out.data, a.data[:a.length])
	retainAll(out)
	return out
}

// Slice returns a new array holding the elements of the half-open
// range [start, end).
func Slice[T any](a *Array[T], start, end int) *Array[T] {
	if start < 0 || end < start || end > a.length {
		panic("dynarray: slice bounds out of range")
	}
	out := newDerived(a, end-start)
	copy(out.data, a.data[start:end])
	retainAll(out)
	return out
}

// Concat returns a new array holding all of a's elements followed by
// all of b's. The result carries a's hooks and allocator.
func Concat[T any](a, b *Array[T]) *Array[T] {
	out := newDerived(a, a.length+b.length)
	copy(out.data, a.data[:a.length])
	copy(out.data[a.length:], b.data[:b.length])
	retainAll(out)
	return out
}

// Filter returns a new array holding the elements satisfying pred, in
// their original relative order.
func Filter[T any](a *Array[T], pred func(T) bool) *Array[T] {
	b := NewBuilderIn[T](a.alloc)
	for i := 0; i < a.length; i++ {
		if pred(a.data[i]) {
			b.Append(a.data[i])
		}
	}
	out := ToArray(&b, a.retain, a.destroy)
	retainAll(out)
	return out
}

// Map returns a new array holding fn applied to each element in
// order. The result carries no hooks: fn constructs the output
// elements and owns whatever it puts in them.
func Map[T, U any](a *Array[T], fn func(T) U) *Array[U] {
	out := &Array[U]{length: a.length, alloc: a.alloc}
	out.data = allocSlice[U](a.alloc, a.length)
	for i := 0; i < a.length; i++ {
		out.data[i] = fn(a.data[i])
	}
	out.refs.Store(1)
	return out
}

// Reduce folds the array left to right, starting from initial. An
// empty array yields initial untouched; there is no inferred identity
// element.
func Reduce[T, A any](a *Array[T], initial A, fn func(A, T) A) A {
	acc := initial
	for i := 0; i < a.length; i++ {
		acc = fn(acc, a.data[i])
	}
	return acc
}

// FindIndex returns the index of the first element satisfying pred,
// or -1 if none does.
func FindIndex[T any](a *Array[T], pred func(T) bool) int {
	for i := 0; i < a.length; i++ {
		if pred(a.data[i]) {
			return i
		}
	}
	return -1
}

// Contains reports whether any element satisfies pred.
func Contains[T any](a *Array[T], pred func(T) bool) bool {
	return FindIndex(a, pred) >= 0
}

// Sort orders the elements in place by cmp, which returns a negative
// number when x sorts before y, zero when they are equal, and a
// positive number when x sorts after y. The sort is not stable.
func Sort[T any](a *Array[T], cmp func(x, y T) int) {
	slices.SortFunc(a.data[:a.length], cmp)
}
