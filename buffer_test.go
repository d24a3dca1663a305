// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferBasicOperations(t *testing.T) {
	buf := NewBuffer(nil)

	require.Equal(t, 0, buf.Len())
	require.Equal(t, 0, buf.Cap())
	require.Equal(t, "", buf.String())
	require.Equal(t, []byte{}, buf.Bytes())

	n, err := buf.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", buf.String())

	require.NoError(t, buf.WriteByte(' '))

	n, err = buf.WriteString("world")
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello world", buf.String())
	require.Equal(t, 11, buf.Len())
}

func TestBufferRead(t *testing.T) {
	buf := NewBuffer(nil)
	_, err := buf.WriteString("abcdef")
	require.NoError(t, err)

	p := make([]byte, 4)
	n, err := buf.Read(p)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "abcd", string(p))
	require.Equal(t, "ef", buf.String())

	n, err = buf.Read(p)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)
	require.Equal(t, "ef", string(p[:n]))

	_, err = buf.Read(p)
	require.ErrorIs(t, err, io.EOF)
}

func TestBufferReadByte(t *testing.T) {
	buf := NewBuffer(nil)
	_, err := buf.WriteString("ab")
	require.NoError(t, err)

	c, err := buf.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('a'), c)

	c, err = buf.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('b'), c)

	_, err = buf.ReadByte()
	require.ErrorIs(t, err, io.EOF)
}

func TestBufferReadFromWriteTo(t *testing.T) {
	buf := NewBuffer(nil)

	n, err := buf.ReadFrom(strings.NewReader("streamed data"))
	require.NoError(t, err)
	require.Equal(t, int64(13), n)
	require.Equal(t, "streamed data", buf.String())

	var out bytes.Buffer
	m, err := buf.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(13), m)
	require.Equal(t, "streamed data", out.String())
	require.Equal(t, 0, buf.Len())
}

func TestBufferTruncateAndNext(t *testing.T) {
	buf := NewBuffer(nil)
	_, err := buf.WriteString("abcdef")
	require.NoError(t, err)

	buf.Truncate(4)
	require.Equal(t, "abcd", buf.String())
	require.Panics(t, func() { buf.Truncate(5) })
	require.Panics(t, func() { buf.Truncate(-1) })

	next := buf.Next(2)
	require.Equal(t, "ab", string(next))
	require.Equal(t, "cd", buf.String())

	// Asking for more than is buffered returns what there is.
	next = buf.Next(10)
	require.Equal(t, "cd", string(next))
	require.Equal(t, 0, buf.Len())
	require.Equal(t, []byte{}, buf.Next(3))
}

func TestBufferReset(t *testing.T) {
	buf := NewBuffer(nil)
	_, err := buf.WriteString("data")
	require.NoError(t, err)

	capBefore := buf.Cap()
	buf.Reset()
	require.Equal(t, 0, buf.Len())
	require.Equal(t, capBefore, buf.Cap())
}

func TestBufferToArray(t *testing.T) {
	buf := NewBuffer(nil)
	_, err := buf.WriteString("hello")
	require.NoError(t, err)

	arr := buf.ToArray()
	require.Equal(t, 5, arr.Len())
	require.Equal(t, 5, arr.Cap()) // exact capacity
	require.Equal(t, []byte("hello"), arr.Data())
	require.Equal(t, 1, arr.Refs())

	// The buffer drained and is reusable.
	require.Equal(t, 0, buf.Len())
	_, err = buf.WriteString("again")
	require.NoError(t, err)
	require.Equal(t, "again", buf.String())

	// The array is independent of later buffer writes.
	require.Equal(t, []byte("hello"), arr.Data())

	Release(&arr)
}

func TestBufferToArrayEmpty(t *testing.T) {
	buf := NewBuffer(nil)
	arr := buf.ToArray()
	require.Equal(t, 0, arr.Len())
	require.Equal(t, 0, arr.Cap())

	Release(&arr)
}

func TestBufferWithBumpAllocator(t *testing.T) {
	alloc := NewBumpAllocator(WithBufferSize(8192))
	buf := NewBuffer(alloc)

	for i := 0; i < 100; i++ {
		_, err := buf.WriteString("chunk ")
		require.NoError(t, err)
	}
	require.Equal(t, 600, buf.Len())
	require.Positive(t, alloc.Len())

	arr := buf.ToArray()
	require.Equal(t, 600, arr.Len())
	require.Equal(t, 600, arr.Cap())

	Release(&arr)
	alloc.Release()
}
