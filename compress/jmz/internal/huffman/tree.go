// Copyright (c) 2023, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

import (
	"container/heap"
	"errors"
)

var (
	ErrEmptyHistogram = errors.New("histogram has no symbols")
	ErrNilTree        = errors.New("huffman tree is nil")
	ErrUnknownSymbol  = errors.New("symbol has no code in the tree")
)

// BuildTree builds a Huffman tree from the histogram by repeatedly merging
// the two lightest nodes. The first node removed becomes the left child.
//
// Ties on weight are broken by creation order: leaves are created in
// ascending byte order, and every merged node is newer than all nodes before
// it. The older node is removed first. The result depends only on h, so the
// encoder and decoder always derive the same codes from the same table.
//
// A histogram with one symbol yields a single *Leaf.
func BuildTree(h Histogram) (Node, error) {
	var q nodeQueue
	for sym, v := range h {
		if v != 0 {
			q.items = append(q.items, queued{n: NewLeaf(byte(sym), v), seq: q.next})
			q.next++
		}
	}
	switch len(q.items) {
	case 0:
		return nil, ErrEmptyHistogram
	case 1:
		return q.items[0].n, nil
	}

	heap.Init(&q)
	for q.Len() > 1 {
		left := heap.Pop(&q).(queued)
		right := heap.Pop(&q).(queued)
		heap.Push(&q, queued{n: NewInternal(left.n, right.n), seq: q.next})
		q.next++
	}
	return heap.Pop(&q).(queued).n, nil
}

type queued struct {
	n   Node
	seq int
}

// nodeQueue is a min-heap on (weight, seq). It lives for one BuildTree call.
type nodeQueue struct {
	items []queued
	next  int
}

func (q *nodeQueue) Len() int { return len(q.items) }

func (q *nodeQueue) Less(i, j int) bool {
	wi, wj := q.items[i].n.Weight(), q.items[j].n.Weight()
	if wi != wj {
		return wi < wj
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *nodeQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *nodeQueue) Push(x any) {
	q.items = append(q.items, x.(queued))
}

func (q *nodeQueue) Pop() any {
	n := len(q.items)
	x := q.items[n-1]
	q.items = q.items[:n-1]
	return x
}
