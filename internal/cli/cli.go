// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package cli implements the jmzip and jmunzip commands.
package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jmzip/jmzip/compress/jmz"
)

// Ext is the file extension jmunzip requires on its input.
const Ext = ".jmz"

var (
	ErrUsage  = errors.New("usage: expected an input and an output file name")
	ErrInput  = errors.New("unable to read input file")
	ErrOutput = errors.New("unable to write output file")
	ErrNotJMZ = errors.New("file to unzip is not a " + Ext + " file")
)

// Compress reads args[0], compresses it and writes the record to args[1].
// Nothing is written when any step before the output fails.
func Compress(args []string, log *zap.SugaredLogger, opts ...jmz.Option) error {
	in, out, err := paths(args)
	if err != nil {
		return err
	}
	input, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(ErrInput, "%v", err)
	}
	defer input.Close()

	var record bytes.Buffer
	w := jmz.NewWriter(&record, withLogger(log, opts)...)
	n, err := io.Copy(w, input)
	if err != nil {
		return errors.Wrapf(ErrInput, "%v", err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := write(out, record.Bytes()); err != nil {
		return err
	}
	log.Infof("%s: %d bytes -> %s: %d bytes", in, n, out, record.Len())
	return nil
}

// Decompress reads the record in args[0], which must end in Ext, and writes
// the decoded bytes to args[1]. A malformed record leaves no output behind.
func Decompress(args []string, log *zap.SugaredLogger, opts ...jmz.Option) error {
	in, out, err := paths(args)
	if err != nil {
		return err
	}
	if filepath.Ext(in) != Ext {
		return errors.Wrapf(ErrNotJMZ, "%s", in)
	}
	input, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(ErrInput, "%v", err)
	}
	defer input.Close()

	var data bytes.Buffer
	r := jmz.NewReader(input, withLogger(log, opts)...)
	defer r.Close()
	if _, err := io.Copy(&data, r); err != nil {
		if errors.Is(err, jmz.ErrMalformedRecord) {
			return errors.WithMessage(err, in)
		}
		return errors.Wrapf(ErrInput, "%v", err)
	}
	if err := write(out, data.Bytes()); err != nil {
		return err
	}
	log.Infof("%s -> %s: %d bytes", in, out, data.Len())
	return nil
}

// withLogger returns a new option list with log first, so options given by
// the caller still take precedence and their slice is left untouched.
func withLogger(log *zap.SugaredLogger, opts []jmz.Option) []jmz.Option {
	return append([]jmz.Option{jmz.WithLogger(log.Desugar())}, opts...)
}

func paths(args []string) (in, out string, err error) {
	if len(args) < 2 {
		return "", "", ErrUsage
	}
	return args[0], args[1], nil
}

func write(name string, data []byte) error {
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errors.Wrapf(ErrOutput, "%v", err)
	}
	return nil
}
