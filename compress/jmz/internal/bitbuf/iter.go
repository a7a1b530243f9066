// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package bitbuf

// Iterator walks the bits of a Buffer from index 0 to Len-1.
// An Iterator is single use; call Buffer.Iter again to restart.
type Iterator struct {
	b   *Buffer
	idx int
}

// Iter returns a fresh iterator positioned at the first bit.
func (b *Buffer) Iter() *Iterator {
	return &Iterator{b: b}
}

// Next returns the next bit. ok is false once every bit has been produced.
func (it *Iterator) Next() (bit int, ok bool) {
	if it.idx >= it.b.bitLen {
		return 0, false
	}
	bit = it.b.bit(it.idx)
	it.idx++
	return bit, true
}

// Remaining returns how many bits are left.
func (it *Iterator) Remaining() int {
	return it.b.bitLen - it.idx
}
