// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package jmz

import "go.uber.org/zap"

// Format selects the wire format of a save record.
type Format uint8

const (
	FormatCBOR   Format = iota // CBOR map behind the "JMZC" magic (default)
	FormatPacked               // bit-packed header behind the "JMZP" magic
)

func (f Format) String() string {
	switch f {
	case FormatCBOR:
		return "cbor"
	case FormatPacked:
		return "packed"
	}
	return "unknown"
}

// ParseFormat maps "cbor" or "packed" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "cbor", "":
		return FormatCBOR, nil
	case "packed":
		return FormatPacked, nil
	}
	return 0, errUnknownFormat(s)
}

type config struct {
	format Format
	log    *zap.Logger
	trees  *TreeCache
}

// Option configures Compress, Decompress, Writer and Reader.
type Option func(*config)

// WithFormat sets the record format written by Compress and Writer.
// Decoding detects the format on its own and ignores this option.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithLogger sets the logger used for debug summaries. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTreeCache makes decoding reuse trees built for identical frequency tables.
func WithTreeCache(tc *TreeCache) Option {
	return func(c *config) {
		c.trees = tc
	}
}

func newConfig(opts []Option) config {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
