// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderMaterializeScenario(t *testing.T) {
	b := NewBuilder[int]()
	for i := 0; i < 100; i++ {
		b.Append(i)
	}

	arr := ToArray(&b, nil, nil)
	require.Nil(t, b) // handle consumed

	require.Equal(t, 100, arr.Len())
	require.Equal(t, 100, arr.Cap()) // exact capacity
	require.Equal(t, 1, arr.Refs())
	for i := 0; i < 100; i++ {
		require.Equal(t, i, *arr.Get(i))
	}

	Release(&arr)
}

func TestBuilderDoublingGrowth(t *testing.T) {
	b := NewBuilder[int]()
	require.Equal(t, 0, b.Cap())

	caps := []int{}
	for i := 0; i < 5; i++ {
		b.Append(i)
		caps = append(caps, b.Cap())
	}
	require.Equal(t, []int{1, 2, 4, 4, 8}, caps)

	DestroyBuilder(&b)
}

func TestBuilderIgnoresGrowthIncrement(t *testing.T) {
	SetGrowthIncrement(16)
	defer SetGrowthIncrement(0)

	b := NewBuilder[int]()
	b.Append(1)
	require.Equal(t, 1, b.Cap()) // still doubling, not +16

	DestroyBuilder(&b)
}

func TestBuilderReserve(t *testing.T) {
	b := NewBuilder[int]()
	b.Reserve(100)
	require.Equal(t, 100, b.Cap())
	require.Equal(t, 0, b.Len())

	b.Reserve(10) // never shrinks
	require.Equal(t, 100, b.Cap())

	DestroyBuilder(&b)
}

func TestBuilderAppendArray(t *testing.T) {
	src := New[int]()
	src.AppendSlice(1, 2, 3)

	b := NewBuilder[int]()
	b.Append(0)
	b.AppendArray(src)
	b.AppendArray(src)
	require.Equal(t, 7, b.Len())

	empty := New[int]()
	b.AppendArray(empty) // no-op
	require.Equal(t, 7, b.Len())

	arr := ToArray(&b, nil, nil)
	require.Equal(t, []int{0, 1, 2, 3, 1, 2, 3}, arr.Data())
	require.Equal(t, []int{1, 2, 3}, src.Data()) // source unchanged

	Release(&src)
	Release(&empty)
	Release(&arr)
}

func TestBuilderGetSetClear(t *testing.T) {
	b := NewBuilder[int]()
	b.Append(1)
	b.Append(2)

	require.Equal(t, 2, *b.Get(1))
	b.Set(1, 22)
	require.Equal(t, 22, *b.Get(1))

	capBefore := b.Cap()
	b.Clear()
	require.Equal(t, 0, b.Len())
	require.Equal(t, capBefore, b.Cap())

	DestroyBuilder(&b)
}

func TestEmptyBuilderToArray(t *testing.T) {
	b := NewBuilder[int]()
	arr := ToArray(&b, nil, nil)

	require.Equal(t, 0, arr.Len())
	require.Equal(t, 0, arr.Cap())
	require.Empty(t, arr.Data())

	Release(&arr)
}

func TestToArrayAttachesHooksWithoutRetroactiveRetain(t *testing.T) {
	retains := 0
	var destroyed []int

	b := NewBuilder[int]()
	b.Append(1)
	b.Append(2)

	arr := ToArray(&b,
		func(*int) { retains++ },
		func(v *int) { destroyed = append(destroyed, *v) },
	)
	// Elements are transferred, not duplicated.
	require.Equal(t, 0, retains)

	// But the hooks are live on the new array.
	cp := Copy(arr)
	require.Equal(t, 2, retains)

	Release(&arr)
	require.Equal(t, []int{1, 2}, destroyed)
	Release(&cp)
	require.Equal(t, []int{1, 2, 1, 2}, destroyed)
}

func TestDestroyBuilderRunsNoElementCleanup(t *testing.T) {
	b := NewBuilder[int]()
	b.Append(1)
	b.Append(2)

	DestroyBuilder(&b)
	require.Nil(t, b)
}

func TestConsumedBuilderPanics(t *testing.T) {
	b := NewBuilder[int]()
	b.Append(1)
	stale := b

	arr := ToArray(&b, nil, nil)
	require.Panics(t, func() { stale.Append(2) })
	require.Panics(t, func() { stale.Len() })

	Release(&arr)

	require.Panics(t, func() {
		var nilBuilder *Builder[int]
		ToArray(&nilBuilder, nil, nil)
	})
	require.Panics(t, func() {
		var nilBuilder *Builder[int]
		DestroyBuilder(&nilBuilder)
	})
}

func TestBuilderBounds(t *testing.T) {
	b := NewBuilder[int]()
	b.Append(1)

	require.Panics(t, func() { b.Get(1) })
	require.Panics(t, func() { b.Set(-1, 0) })
	require.Panics(t, func() { b.Reserve(-1) })

	DestroyBuilder(&b)
}

func TestBuilderInBumpAllocator(t *testing.T) {
	alloc := NewBumpAllocator(WithBufferSize(1024))
	b := NewBuilderIn[int](alloc)
	for i := 0; i < 50; i++ {
		b.Append(i)
	}

	arr := ToArray(&b, nil, nil)
	require.Equal(t, 50, arr.Len())
	require.Equal(t, 50, arr.Cap())
	for i := 0; i < 50; i++ {
		require.Equal(t, i, *arr.Get(i))
	}

	Release(&arr)
	alloc.Release()
}

func TestBuilderExactCapacityBufferIsTransferred(t *testing.T) {
	b := NewBuilder[int]()
	b.Reserve(3)
	b.Append(1)
	b.Append(2)
	b.Append(3)
	base := &b.data[0]

	arr := ToArray(&b, nil, nil)
	// Capacity already matched length, so the buffer moved without a copy.
	require.Same(t, base, arr.Get(0))

	Release(&arr)
}
