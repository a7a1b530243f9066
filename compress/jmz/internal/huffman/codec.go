// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import (
	"fmt"

	"github.com/jmzip/jmzip/compress/jmz/internal/bitbuf"
)

// Encode appends the code of every byte of data, in order, to a new buffer.
// root must be the tree built from data's own histogram.
//
// An empty input gives an empty buffer. A one byte input is always the
// single bit 0, which is the code the lone leaf of its tree gets.
func Encode(root Node, data []byte) (*bitbuf.Buffer, error) {
	out := bitbuf.New()
	switch len(data) {
	case 0:
		return out, nil
	case 1:
		out.Append(0)
		return out, nil
	}
	if root == nil {
		return nil, ErrNilTree
	}

	codes := DeriveCodes(root)
	for i, b := range data {
		code := codes[b]
		if code == nil {
			return nil, fmt.Errorf("%w: byte %#02x at offset %d", ErrUnknownSymbol, b, i)
		}
		out.AppendBuffer(code)
	}
	return out, nil
}

// Decode walks the tree once per symbol, taking the right child on a 1 bit
// and the left child on a 0 bit, and emits the symbol of every leaf reached.
// A tree made of a single leaf emits its symbol once per bit.
//
// When the bits run out before a leaf is reached, the missing bits read as 0:
// the walk keeps going left, emits the leaf it lands on and stops. A truncated
// stream therefore decodes to a prefix plus at most one extra symbol and is
// not reported as an error. A single bit against a tree of several leaves
// decodes to the leftmost leaf under the branch that bit selects.
func Decode(root Node, bits *bitbuf.Buffer) ([]byte, error) {
	if bits.Len() == 0 {
		return []byte{}, nil
	}
	if root == nil {
		return nil, ErrNilTree
	}

	if leaf, ok := root.(*Leaf); ok {
		out := make([]byte, bits.Len())
		for i := range out {
			out[i] = leaf.Symbol
		}
		return out, nil
	}

	out := make([]byte, 0, capHint(root, bits))
	it := bits.Iter()
	for it.Remaining() > 0 {
		n := root
	walk:
		for {
			switch x := n.(type) {
			case *Leaf:
				out = append(out, x.Symbol)
				break walk
			case *Internal:
				if bit, ok := it.Next(); ok && bit == 1 {
					n = x.Right
				} else {
					n = x.Left
				}
			default:
				return nil, ErrNilTree
			}
		}
	}
	return out, nil
}

// capHint guesses the output size. Every code is at least one bit long and
// the tree weight is the symbol count of the encoded input.
func capHint(root Node, bits *bitbuf.Buffer) int {
	w := root.Weight()
	if w > 0 && w <= uint64(bits.Len()) {
		return int(w)
	}
	return bits.Len()
}
