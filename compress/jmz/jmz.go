// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package jmz implements a lossless byte compressor based on Huffman coding.
//
// The whole input is held in memory. Compression counts byte frequencies,
// builds a Huffman tree from them and packs the code of every byte into a bit
// buffer. The save record keeps the frequency table and the packed bits; the
// tree is rebuilt from the table when decompressing.
package jmz

import (
	"go.uber.org/zap"

	"github.com/jmzip/jmzip/compress/jmz/internal/bitbuf"
	"github.com/jmzip/jmzip/compress/jmz/internal/huffman"
)

// Encode compresses data into a record. An empty input gives an empty record
// and no tree is built for it.
func Encode(data []byte, opts ...Option) (*Record, error) {
	cfg := newConfig(opts)
	return encode(&cfg, data)
}

func encode(cfg *config, data []byte) (*Record, error) {
	freq := huffman.Count(data)
	if len(data) == 0 {
		return newRecord(freq, bitbuf.New()), nil
	}
	root, err := huffman.BuildTree(freq)
	if err != nil {
		return nil, err
	}
	bits, err := huffman.Encode(root, data)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug("encoded",
		zap.Int("bytes", len(data)),
		zap.Int("symbols", freq.Symbols()),
		zap.Int("depth", huffman.Depth(root)),
		zap.Int("bits", bits.Len()),
	)
	return newRecord(freq, bits), nil
}

// Decode rebuilds the Huffman tree from the record's frequency table and
// decodes the payload.
func (r *Record) Decode(opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	return r.decode(&cfg)
}

func (r *Record) decode(cfg *config) ([]byte, error) {
	bits := r.buf()
	if bits.Len() == 0 {
		return []byte{}, nil
	}
	root, hit, err := cfg.trees.tree(r.freq)
	if err != nil {
		return nil, err
	}
	out, err := huffman.Decode(root, bits)
	if err != nil {
		return nil, err
	}
	cfg.log.Debug("decoded",
		zap.Int("bits", bits.Len()),
		zap.Int("bytes", len(out)),
		zap.Bool("cached_tree", hit),
	)
	return out, nil
}

// Compress encodes data and marshals the record in the configured format.
func Compress(data []byte, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	rec, err := encode(&cfg, data)
	if err != nil {
		return nil, err
	}
	return rec.Marshal(cfg.format)
}

// Decompress parses a record and decodes it. A record that can not be parsed
// fails with ErrMalformedRecord before any decoding happens.
func Decompress(compressed []byte, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	rec, err := UnmarshalRecord(compressed)
	if err != nil {
		return nil, err
	}
	return rec.decode(&cfg)
}
