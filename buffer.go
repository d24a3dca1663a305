// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"io"
)

// readChunkSize is the size of the intermediate buffer used by ReadFrom.
const readChunkSize = 4096

// Buffer is a bytes.Buffer-like staging area for byte workloads. It
// implements io.Writer, io.Reader, io.ReaderFrom and io.WriterTo, and
// materializes into an Array[byte] with ToArray, giving bytes the
// same build-then-share lifecycle as typed elements. Like a Builder,
// it grows by doubling and is not safe for concurrent use.
type Buffer struct {
	alloc   Allocator
	buf     []byte // len(buf) is the capacity; buf[:n] is unread
	n       int
	readBuf []byte // intermediate buffer for ReadFrom
}

// NewBuffer creates an empty buffer. A nil allocator means plain Go
// allocation.
func NewBuffer(alloc Allocator) *Buffer {
	return &Buffer{alloc: alloc}
}

func (b *Buffer) ensure(need int) {
	if need <= len(b.buf) {
		return
	}
	b.buf = reallocSlice(b.alloc, b.buf, b.n, doubleCapacity(len(b.buf), need))
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.ensure(b.n + len(p))
	copy(b.buf[b.n:], p)
	b.n += len(p)
	return len(p), nil
}

// WriteByte writes a single byte to the buffer.
func (b *Buffer) WriteByte(c byte) error {
	b.ensure(b.n + 1)
	b.buf[b.n] = c
	b.n++
	return nil
}

// WriteString writes a string to the buffer.
func (b *Buffer) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	b.ensure(b.n + len(s))
	copy(b.buf[b.n:], s)
	b.n += len(s)
	return len(s), nil
}

// Read implements io.Reader. It consumes up to len(p) bytes from the
// front of the buffer and returns io.EOF when the buffer runs out.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.n == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.buf[:b.n])
	copy(b.buf, b.buf[n:b.n])
	b.n -= n
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadByte reads and returns the next byte, or io.EOF if none is
// available.
func (b *Buffer) ReadByte() (byte, error) {
	if b.n == 0 {
		return 0, io.EOF
	}
	c := b.buf[0]
	copy(b.buf, b.buf[1:b.n])
	b.n--
	return c, nil
}

// WriteTo implements io.WriterTo. It writes the unread bytes to w and
// consumes whatever w accepted.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b.n == 0 {
		return 0, nil
	}
	m, err := w.Write(b.buf[:b.n])
	if m > 0 {
		copy(b.buf, b.buf[m:b.n])
		b.n -= m
	}
	return int64(m), err
}

// ReadFrom implements io.ReaderFrom. It reads r until EOF, staging
// everything into the buffer.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	if b.readBuf == nil {
		b.readBuf = allocSlice[byte](b.alloc, readChunkSize)
	}
	var total int64
	for {
		nr, er := r.Read(b.readBuf)
		if nr > 0 {
			if _, ew := b.Write(b.readBuf[:nr]); ew != nil {
				return total, ew
			}
			total += int64(nr)
		}
		if er != nil {
			if er == io.EOF {
				return total, nil
			}
			return total, er
		}
	}
}

// Bytes returns the unread portion of the buffer. The slice is valid
// only until the next buffer modification.
func (b *Buffer) Bytes() []byte {
	if b.n == 0 {
		return []byte{}
	}
	return b.buf[:b.n]
}

// String returns the unread portion of the buffer as a string.
func (b *Buffer) String() string {
	return string(b.buf[:b.n])
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the capacity of the underlying storage.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Reset discards all unread bytes, keeping capacity.
func (b *Buffer) Reset() {
	b.n = 0
}

// Truncate discards all but the first n unread bytes. It panics if n
// is negative or beyond the buffer's length.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.n {
		panic("dynarray: truncation out of range")
	}
	b.n = n
}

// Next returns a copy of the next n unread bytes, consuming them as
// if they had been returned by Read. Fewer bytes are returned when
// the buffer runs short.
func (b *Buffer) Next(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	if n > b.n {
		n = b.n
	}
	out := make([]byte, n)
	copy(out, b.buf[:n])
	copy(b.buf, b.buf[n:b.n])
	b.n -= n
	return out
}

// ToArray drains the unread bytes into a new Array[byte] with
// capacity exactly equal to length and one reference. The buffer is
// reset and can be reused.
func (b *Buffer) ToArray() *Array[byte] {
	out := &Array[byte]{length: b.n, alloc: b.alloc}
	out.data = allocSlice[byte](b.alloc, b.n)
	copy(out.data, b.buf[:b.n])
	out.refs.Store(1)
	b.n = 0
	return out
}
