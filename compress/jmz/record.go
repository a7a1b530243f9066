// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package jmz

import (
	"github.com/jmzip/jmzip/compress/jmz/internal/bitbuf"
	"github.com/jmzip/jmzip/compress/jmz/internal/huffman"
)

// Record is a save record: the frequency table of the original bytes and
// their encoding. The Huffman tree is not stored, it is rebuilt from the
// table when the record is decoded.
type Record struct {
	freq huffman.Histogram
	bits *bitbuf.Buffer
}

// newRecord compacts bits so the record never carries spare capacity.
func newRecord(freq huffman.Histogram, bits *bitbuf.Buffer) *Record {
	bits.Compact()
	return &Record{freq: freq, bits: bits}
}

// NewRecord assembles a record from its persisted parts: the frequency
// table, the payload bytes and the number of valid bits in the payload.
// It fails with ErrMalformedRecord when the parts are inconsistent.
func NewRecord(freq map[byte]uint64, payload []byte, bitLen int) (*Record, error) {
	var hist huffman.Histogram
	for sym, v := range freq {
		if v == 0 {
			return nil, malformed("symbol %#02x has a zero count", sym)
		}
		hist[sym] = v
	}
	return parsedRecord(hist, payload, bitLen)
}

func parsedRecord(hist huffman.Histogram, payload []byte, bitLen int) (*Record, error) {
	if bitLen < 0 {
		return nil, malformed("negative bit length %d", bitLen)
	}
	if want := (bitLen + 7) / 8; len(payload) != want {
		return nil, malformed("payload is %d bytes, %d bits need %d", len(payload), bitLen, want)
	}
	if bitLen > 0 && hist.Symbols() == 0 {
		return nil, malformed("%d payload bits but an empty frequency table", bitLen)
	}
	bits, err := bitbuf.FromBytes(payload, bitLen)
	if err != nil {
		return nil, malformed("payload: %v", err)
	}
	return &Record{freq: hist, bits: bits}, nil
}

// buf returns the encoding, treating a zero Record as the empty record.
func (r *Record) buf() *bitbuf.Buffer {
	if r.bits == nil {
		return &bitbuf.Buffer{}
	}
	return r.bits
}

// Frequencies returns the count of every byte value present in the input.
func (r *Record) Frequencies() map[byte]uint64 {
	m := make(map[byte]uint64, r.freq.Symbols())
	for sym, v := range r.freq {
		if v != 0 {
			m[byte(sym)] = v
		}
	}
	return m
}

// BitLen returns the number of valid bits in the payload.
func (r *Record) BitLen() int {
	return r.buf().Len()
}

// Payload returns the encoded bits packed least significant bit first.
// Bits of the last byte past BitLen are zero.
func (r *Record) Payload() []byte {
	return r.buf().Bytes()
}

// Equal reports whether two records hold the same table and encoding.
func (r *Record) Equal(o *Record) bool {
	return r.freq == o.freq && r.buf().Equal(o.buf())
}
