// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package jmz

import (
	"bytes"
	"io"
)

// Writer collects everything written to it and writes one save record to
// the underlying writer on Close. Nothing reaches the underlying writer
// before Close, since the frequency table needs the whole input.
type Writer struct {
	err    error        // Last error encountered
	w      io.Writer    // Destination of the record
	buffer bytes.Buffer // Input accumulated so far
	cfg    config
}

// NewWriter returns a Writer that writes a record to under when closed.
func NewWriter(under io.Writer, opts ...Option) *Writer {
	return &Writer{w: under, cfg: newConfig(opts)}
}

// Write buffers data. It never writes to the underlying writer.
func (w *Writer) Write(data []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	return w.buffer.Write(data)
}

// Reset discards buffered input and state so the Writer can be reused.
func (w *Writer) Reset(under io.Writer) {
	w.err = nil
	w.w = under
	w.buffer.Reset()
}

// Close encodes the buffered input and writes the record.
// Further writes fail with ErrClosed.
func (w *Writer) Close() (err error) {
	if w.err != nil {
		return w.err
	}
	rec, err := encode(&w.cfg, w.buffer.Bytes())
	if err != nil {
		w.err = err
		return err
	}
	data, err := rec.Marshal(w.cfg.format)
	if err != nil {
		w.err = err
		return err
	}
	if _, err = w.w.Write(data); err != nil {
		w.err = err
		return err
	}
	w.buffer.Reset()
	w.err = ErrClosed
	return nil
}
