// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package huffman

// Histogram is a frequency table indexed by byte value.
// A zero count means the byte does not occur.
type Histogram [256]uint64

// Count returns the byte frequencies of input.
func Count(input []byte) Histogram {
	var hist Histogram
	for j := 0; j < len(input); j++ {
		hist[input[j]]++
	}
	return hist
}

// Symbols returns the number of distinct bytes present.
func (h *Histogram) Symbols() int {
	num := 0
	for _, v := range h {
		if v != 0 {
			num++
		}
	}
	return num
}

// Total returns the sum of all counts.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, v := range h {
		total += v
	}
	return total
}
