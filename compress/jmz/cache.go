// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package jmz

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/jmzip/jmzip/compress/jmz/internal/huffman"
)

// TreeCache keeps recently built Huffman trees keyed by frequency table.
// Tree construction is deterministic, so a cached tree decodes exactly like a
// freshly built one. A TreeCache is safe for concurrent use.
type TreeCache struct {
	trees *lru.Cache[uint64, cachedTree]
}

type cachedTree struct {
	freq huffman.Histogram
	root huffman.Node
}

// NewTreeCache returns a cache holding at most size trees.
func NewTreeCache(size int) (*TreeCache, error) {
	c, err := lru.New[uint64, cachedTree](size)
	if err != nil {
		return nil, errors.Wrap(err, "tree cache")
	}
	return &TreeCache{trees: c}, nil
}

// Len returns the number of cached trees.
func (tc *TreeCache) Len() int {
	return tc.trees.Len()
}

// tree returns the tree for h, building it on a miss. A nil cache always builds.
func (tc *TreeCache) tree(h huffman.Histogram) (root huffman.Node, hit bool, err error) {
	if tc == nil {
		root, err = huffman.BuildTree(h)
		return root, false, err
	}
	key := histogramKey(&h)
	if t, ok := tc.trees.Get(key); ok && t.freq == h {
		return t.root, true, nil
	}
	root, err = huffman.BuildTree(h)
	if err != nil {
		return nil, false, err
	}
	tc.trees.Add(key, cachedTree{freq: h, root: root})
	return root, false, nil
}

func histogramKey(h *huffman.Histogram) uint64 {
	var buf [8 * 256]byte
	for i, v := range h {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return xxhash.Sum64(buf[:])
}
