// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// This file implements the two save record wire formats.
//
// CBOR ("JMZC" magic) holds a deterministic CBOR map:
//
//	v: format version (1)
//	f: map of byte value to count, present bytes only
//	n: number of valid payload bits
//	p: payload bytes, exactly ceil(n/8)
//
// Packed ("JMZP" magic) is written most significant bit first:
//
//	version  8 bits
//	symbols  9 bits (0..256)
//	width    7 bits, bit width of every count (1..64)
//	repeat symbols times: symbol 8 bits, count width bits
//	bitLen   64 bits
//	zero bits up to the next byte boundary
//	payload  ceil(bitLen/8) bytes
package jmz

import (
	"bytes"
	"io"
	"math/bits"

	"github.com/fxamacker/cbor/v2"
	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/jmzip/jmzip/compress/jmz/internal/huffman"
)

const (
	magicLen    = 4
	magicCBOR   = "JMZC"
	magicPacked = "JMZP"

	recordVersion = 1
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	opts := cbor.CoreDetEncOptions()
	opts.NilContainers = cbor.NilContainerAsEmpty
	encMode, err = opts.EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		MaxMapPairs: 256 + 4,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

type cborRecord struct {
	Version uint8            `cbor:"v"`
	Freq    map[uint8]uint64 `cbor:"f"`
	BitLen  uint64           `cbor:"n"`
	Payload []byte           `cbor:"p"`
}

// MarshalBinary encodes the record in the default CBOR format.
func (r *Record) MarshalBinary() ([]byte, error) {
	return r.Marshal(FormatCBOR)
}

// UnmarshalBinary replaces r with the record decoded from data.
func (r *Record) UnmarshalBinary(data []byte) error {
	rec, err := UnmarshalRecord(data)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

// Marshal encodes the record in the given format.
func (r *Record) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatCBOR:
		return r.marshalCBOR()
	case FormatPacked:
		return r.marshalPacked()
	}
	return nil, errUnknownFormat(f.String())
}

// UnmarshalRecord parses a record in either format. Any inconsistency is
// reported as ErrMalformedRecord.
func UnmarshalRecord(data []byte) (*Record, error) {
	if len(data) < magicLen {
		return nil, malformed("%d bytes is too short for a record", len(data))
	}
	switch string(data[:magicLen]) {
	case magicCBOR:
		return unmarshalCBOR(data[magicLen:])
	case magicPacked:
		return unmarshalPacked(data[magicLen:])
	}
	return nil, malformed("unknown magic %q", data[:magicLen])
}

func (r *Record) marshalCBOR() ([]byte, error) {
	rec := cborRecord{
		Version: recordVersion,
		Freq:    make(map[uint8]uint64, r.freq.Symbols()),
		BitLen:  uint64(r.BitLen()),
		Payload: r.Payload(),
	}
	for sym, v := range r.freq {
		if v != 0 {
			rec.Freq[uint8(sym)] = v
		}
	}
	body, err := encMode.Marshal(&rec)
	if err != nil {
		return nil, errors.Wrap(err, "cbor encode record")
	}
	return append([]byte(magicCBOR), body...), nil
}

func unmarshalCBOR(data []byte) (*Record, error) {
	var rec cborRecord
	if err := decMode.Unmarshal(data, &rec); err != nil {
		return nil, malformed("cbor: %v", err)
	}
	if rec.Version != recordVersion {
		return nil, malformed("unsupported version %d", rec.Version)
	}
	if rec.BitLen > uint64(len(rec.Payload))*8 {
		return nil, malformed("bit length %d exceeds a %d byte payload", rec.BitLen, len(rec.Payload))
	}
	var hist huffman.Histogram
	for sym, v := range rec.Freq {
		if v == 0 {
			return nil, malformed("symbol %#02x has a zero count", sym)
		}
		hist[sym] = v
	}
	return parsedRecord(hist, rec.Payload, int(rec.BitLen))
}

func (r *Record) marshalPacked() ([]byte, error) {
	var top uint64
	for _, v := range r.freq {
		if v > top {
			top = v
		}
	}
	width := bits.Len64(top)
	if width == 0 {
		width = 1
	}

	buf := bytes.NewBufferString(magicPacked)
	w := bitio.NewWriter(buf)
	w.TryWriteBits(recordVersion, 8)
	w.TryWriteBits(uint64(r.freq.Symbols()), 9)
	w.TryWriteBits(uint64(width), 7)
	for sym, v := range r.freq {
		if v != 0 {
			w.TryWriteBits(uint64(sym), 8)
			w.TryWriteBits(v, uint8(width))
		}
	}
	w.TryWriteBits(uint64(r.BitLen()), 64)
	w.TryAlign()
	w.TryWrite(r.Payload())
	if w.TryError != nil {
		return nil, errors.Wrap(w.TryError, "pack record")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "pack record")
	}
	return buf.Bytes(), nil
}

func unmarshalPacked(data []byte) (*Record, error) {
	src := bytes.NewReader(data)
	r := bitio.NewReader(src)

	version := r.TryReadBits(8)
	symbols := r.TryReadBits(9)
	width := r.TryReadBits(7)
	if r.TryError != nil {
		return nil, malformed("packed header: %v", r.TryError)
	}
	if version != recordVersion {
		return nil, malformed("unsupported version %d", version)
	}
	if symbols > 256 {
		return nil, malformed("%d symbols", symbols)
	}
	if width == 0 || width > 64 {
		return nil, malformed("count width %d", width)
	}

	var hist huffman.Histogram
	prev := -1
	for i := uint64(0); i < symbols; i++ {
		sym := int(r.TryReadBits(8))
		v := r.TryReadBits(uint8(width))
		if r.TryError != nil {
			return nil, malformed("packed table: %v", r.TryError)
		}
		if sym <= prev {
			return nil, malformed("symbol %#02x out of order", sym)
		}
		if v == 0 {
			return nil, malformed("symbol %#02x has a zero count", sym)
		}
		hist[sym] = v
		prev = sym
	}

	bitLen := r.TryReadBits(64)
	if r.TryError != nil {
		return nil, malformed("packed bit length: %v", r.TryError)
	}
	r.Align()
	if bitLen > uint64(src.Len())*8 {
		return nil, malformed("bit length %d exceeds the %d remaining bytes", bitLen, src.Len())
	}
	payload := make([]byte, src.Len())
	if _, err := io.ReadFull(src, payload); err != nil {
		return nil, malformed("packed payload: %v", err)
	}
	return parsedRecord(hist, payload, int(bitLen))
}
