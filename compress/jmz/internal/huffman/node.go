// Copyright (c) 2023, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

// Node is a Huffman tree node: either a *Leaf or an *Internal.
// The set of implementations is closed.
type Node interface {
	// Weight is the total symbol count below this node.
	Weight() uint64
	node()
}

// Leaf carries one byte value and its count.
type Leaf struct {
	Symbol byte
	Count  uint64
}

// Internal owns two children. Sum is always Left.Weight() + Right.Weight().
type Internal struct {
	Left, Right Node
	Sum         uint64
}

func NewLeaf(sym byte, count uint64) *Leaf {
	return &Leaf{Symbol: sym, Count: count}
}

func NewInternal(left, right Node) *Internal {
	return &Internal{Left: left, Right: right, Sum: left.Weight() + right.Weight()}
}

func (l *Leaf) Weight() uint64     { return l.Count }
func (n *Internal) Weight() uint64 { return n.Sum }

func (*Leaf) node()     {}
func (*Internal) node() {}

// Leaves returns the leaves of the tree rooted at n, left to right.
func Leaves(n Node) []*Leaf {
	var out []*Leaf
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Leaf:
			out = append(out, n)
		case *Internal:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(n)
	return out
}

// Depth returns the length of the longest root to leaf path.
// A single leaf has depth 0.
func Depth(n Node) int {
	switch n := n.(type) {
	case *Internal:
		l, r := Depth(n.Left), Depth(n.Right)
		if l < r {
			l = r
		}
		return l + 1
	default:
		return 0
	}
}
