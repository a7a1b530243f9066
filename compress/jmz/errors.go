// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package jmz

import "github.com/pkg/errors"

var (
	// ErrMalformedRecord is returned when a save record can not be parsed into
	// a frequency table and payload. No decoding is attempted on such input.
	ErrMalformedRecord = errors.New("malformed save record")
	ErrUnknownFormat   = errors.New("unknown record format")
	ErrClosed          = errors.New("jmz: writer is closed")
)

func malformed(format string, args ...any) error {
	return errors.Wrapf(ErrMalformedRecord, format, args...)
}

func errUnknownFormat(name string) error {
	return errors.Wrapf(ErrUnknownFormat, "%q", name)
}
