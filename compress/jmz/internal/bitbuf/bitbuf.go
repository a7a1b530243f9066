// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package bitbuf implements a growable, densely packed sequence of bits.
//
// Bit i lives in byte i/8 at bit position i%8, least significant bit first,
// the same order the deflate bit writer uses. Bits at or past Len are always
// zero, so the payload bytes can be compared and hashed directly.
package bitbuf

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrOutOfRange is returned when a bit index is outside [0, Len).
var ErrOutOfRange = errors.New("bit index out of range")

// Buffer is a bit sequence supporting append and in-place modification.
// Bits can not be removed. The zero value is an empty buffer ready to use.
type Buffer struct {
	output []byte
	bitLen int
}

// New returns an empty buffer with one byte of storage.
func New() *Buffer {
	return &Buffer{output: make([]byte, 1)}
}

// FromBytes builds a buffer holding the first n bits of b.
// Bits of the last byte at or past n are cleared.
func FromBytes(b []byte, n int) (*Buffer, error) {
	if n < 0 || n > len(b)*8 {
		return nil, ErrOutOfRange
	}
	size := byteLen(n)
	buf := &Buffer{output: make([]byte, size), bitLen: n}
	copy(buf.output, b[:size])
	if rest := n % 8; rest != 0 {
		buf.output[size-1] &= byte(1)<<rest - 1
	}
	return buf, nil
}

// Clone returns a copy of b built by appending each of its bits.
func (b *Buffer) Clone() *Buffer {
	c := New()
	c.AppendBuffer(b)
	return c
}

// Len returns the number of bits in the buffer.
func (b *Buffer) Len() int {
	return b.bitLen
}

// Cap returns the number of bytes currently allocated.
func (b *Buffer) Cap() int {
	return len(b.output)
}

// Append adds one bit to the end. 0 appends a zero bit, any other value a one bit.
func (b *Buffer) Append(bit int) {
	idx := b.bitLen / 8
	if idx == len(b.output) {
		b.grow()
	}
	if bit != 0 {
		b.output[idx] |= 1 << (b.bitLen % 8)
	}
	b.bitLen++
}

// grow doubles the backing store.
func (b *Buffer) grow() {
	size := len(b.output) * 2
	if size == 0 {
		size = 1
	}
	output := make([]byte, size)
	copy(output, b.output)
	b.output = output
}

// AppendBuffer appends every bit of o, in order.
func (b *Buffer) AppendBuffer(o *Buffer) {
	// o may be b itself, so the length is fixed before the first append.
	n := o.Len()
	for i := 0; i < n; i++ {
		b.Append(o.bit(i))
	}
}

// AppendString appends bits written as text, e.g. "001".
// '0' appends a zero bit, any other byte appends a one bit.
func (b *Buffer) AppendString(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '0' {
			b.Append(0)
		} else {
			b.Append(1)
		}
	}
}

// Get returns the bit at index i as 0 or 1.
func (b *Buffer) Get(i int) (int, error) {
	if i < 0 || i >= b.bitLen {
		return 0, ErrOutOfRange
	}
	return b.bit(i), nil
}

// Set overwrites the bit at index i. 0 clears it, any other value sets it.
func (b *Buffer) Set(i int, bit int) error {
	if i < 0 || i >= b.bitLen {
		return ErrOutOfRange
	}
	mask := byte(1) << (i % 8)
	if bit != 0 {
		b.output[i/8] |= mask
	} else {
		b.output[i/8] &^= mask
	}
	return nil
}

func (b *Buffer) bit(i int) int {
	return int(b.output[i/8]>>(i%8)) & 1
}

// Bytes returns the payload bytes, exactly ceil(Len/8) of them.
// The slice aliases the buffer's storage.
func (b *Buffer) Bytes() []byte {
	return b.output[:byteLen(b.bitLen)]
}

// Compact shrinks the storage to ceil(Len/8) bytes. It is called before the
// buffer is handed to the persistence layer.
func (b *Buffer) Compact() {
	size := byteLen(b.bitLen)
	if size == len(b.output) {
		return
	}
	output := make([]byte, size)
	copy(output, b.output)
	b.output = output
}

// Equal reports whether b and o hold the same bits.
// Trailing bytes past the payload are never compared, they are always zero.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.bitLen != o.bitLen {
		return false
	}
	x, y := b.Bytes(), o.Bytes()
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Hash returns a 64-bit hash of the bit length and payload bytes.
// Spare capacity does not affect the result.
func (b *Buffer) Hash() uint64 {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(b.bitLen))
	d := xxhash.New()
	d.Write(n[:])
	d.Write(b.Bytes())
	return d.Sum64()
}

// String renders the bits in order, for example "001".
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.bitLen)
	for i := 0; i < b.bitLen; i++ {
		sb.WriteByte('0' + byte(b.bit(i)))
	}
	return sb.String()
}

func byteLen(bits int) int {
	return (bits + 7) / 8
}
