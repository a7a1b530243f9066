// Copyright (c) 2023, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import "github.com/jmzip/jmzip/compress/jmz/internal/bitbuf"

// CodeTable maps a byte value to its code. Bytes absent from the tree are nil.
type CodeTable [256]*bitbuf.Buffer

// DeriveCodes walks the tree and records the path to every leaf,
// 0 for a left branch and 1 for a right branch.
// A tree made of a single leaf gives that symbol the one bit code "0".
func DeriveCodes(root Node) CodeTable {
	var codes CodeTable
	if leaf, ok := root.(*Leaf); ok {
		code := bitbuf.New()
		code.Append(0)
		codes[leaf.Symbol] = code
		return codes
	}

	path := make([]byte, 0, 32)
	var walk func(n Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Leaf:
			code := bitbuf.New()
			for _, bit := range path {
				code.Append(int(bit))
			}
			codes[n.Symbol] = code
		case *Internal:
			path = append(path, 0)
			walk(n.Left)
			path[len(path)-1] = 1
			walk(n.Right)
			path = path[:len(path)-1]
		}
	}
	if root != nil {
		walk(root)
	}
	return codes
}

// Lens returns the code length of every symbol, 0 for absent ones.
func (c *CodeTable) Lens() [256]int {
	var lens [256]int
	for i, code := range c {
		if code != nil {
			lens[i] = code.Len()
		}
	}
	return lens
}
