// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package jmz

import (
	"io"

	"github.com/pkg/errors"
)

// Resetter resets a Reader returned by NewReader to read a new record.
type Resetter interface {
	Reset(r io.Reader) error
}

// NewReader returns a reader serving the decompressed contents of the record
// read from r. The record is read and decoded in full on the first Read.
// The returned value also implements Resetter.
func NewReader(r io.Reader, opts ...Option) io.ReadCloser {
	return &decompressor{r: r, cfg: newConfig(opts)}
}

type decompressor struct {
	r       io.Reader
	cfg     config
	out     []byte
	readPos int
	decoded bool
	err     error
}

func (d *decompressor) Reset(under io.Reader) error {
	d.r = under
	d.out = nil
	d.readPos = 0
	d.decoded = false
	d.err = nil
	return nil
}

func (d *decompressor) Close() error {
	return nil
}

func (d *decompressor) Read(b []byte) (n int, err error) {
	if !d.decoded {
		d.decoded = true
		d.err = d.step()
	}
	if d.err != nil {
		return 0, d.err
	}
	if d.readPos == len(d.out) {
		return 0, io.EOF
	}
	n = copy(b, d.out[d.readPos:])
	d.readPos += n
	return n, nil
}

func (d *decompressor) step() error {
	if d.r == nil {
		return errors.New("jmz: reader has no source")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return errors.Wrap(err, "read record")
	}
	rec, err := UnmarshalRecord(data)
	if err != nil {
		return err
	}
	d.out, err = rec.decode(&d.cfg)
	return err
}
