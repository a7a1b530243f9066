// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package jmz

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"text/tabwriter"

	"github.com/klauspost/compress/huff0"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func opticks(t testing.TB) (data []byte) {
	data, _ = os.ReadFile(filepath.Join(runtime.GOROOT(), "src", "testdata", "Isaac.Newton-Opticks.txt"))
	if data == nil {
		t.Skip("skip for no test data file")
	}
	return data
}

// fixtures mirrors the files the command line tools are tested with.
func fixtures() map[string][]byte {
	fib := make([]byte, 0, 1000)
	prev1, prev2 := 1, 1
	for i := 0; i < 1000; i++ {
		next := prev1 + prev2
		fib = append(fib, byte(next))
		prev1, prev2 = prev2, next
	}
	var counted []byte
	for i := 0; i < 100; i++ {
		for j := 0; j < i+10; j++ {
			counted = append(counted, byte(i))
		}
	}
	return map[string][]byte{
		"empty":     {},
		"one_byte":  {42},
		"all_seven": {7, 7, 7, 7, 7},
		"mary":      []byte("Mary had a little lamb.  It's fleece was white as snow.\n"),
		"fibonacci": fib,
		"bytes":     counted,
	}
}

func TestCompressRoundTrip(t *testing.T) {
	for name, data := range fixtures() {
		for _, f := range formats {
			t.Run(name+"/"+f.String(), func(t *testing.T) {
				c, err := Compress(data, WithFormat(f))
				require.NoError(t, err)
				out, err := Decompress(c)
				require.NoError(t, err)
				require.True(t, bytes.Equal(data, out), "want %d bytes got %d", len(data), len(out))
			})
		}
	}
}

func TestCompressSizes(t *testing.T) {
	testdata := opticks(t)
	for size := 1; size < 128*1024; size *= 2 {
		for _, offset := range []int{0, 1, 3, 5, 7, 9, 17} {
			offsetSize := size + offset
			if len(testdata) < offsetSize {
				break
			}
			source := testdata[:offsetSize]
			c, err := Compress(source)
			require.NoError(t, err)
			data, err := Decompress(c)
			require.NoError(t, err)
			if !bytes.Equal(data, source) {
				t.Fatalf("round trip failed, data_len:%d, source_len:%d, diff:%d", len(data), len(source), diff(data, source))
			}
		}
	}
}

func diff(d, s []byte) (pos int) {
	pos = -1
	for i := 0; i < len(d) && i < len(s); i++ {
		if d[i] != s[i] {
			pos = i
			break
		}
	}
	return
}

func TestFixtureBitLengths(t *testing.T) {
	want := map[string]int{
		"empty":     0,
		"one_byte":  1,
		"all_seven": 5,
		"mary":      227,
		"fibonacci": 7147,
		"bytes":     38557,
	}
	for name, data := range fixtures() {
		rec, err := Encode(data)
		require.NoError(t, err)
		assert.Equal(t, want[name], rec.BitLen(), name)
	}
	rec, err := Encode(fixtures()["bytes"])
	require.NoError(t, err)
	freq := rec.Frequencies()
	require.Len(t, freq, 100)
	for i := 0; i < 100; i++ {
		assert.EqualValues(t, i+10, freq[byte(i)])
	}
}

func TestEmptyRecord(t *testing.T) {
	rec, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.BitLen())
	out, err := rec.Decode()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConcreteScenario(t *testing.T) {
	data := []byte{65, 65, 65, 66}
	rec, err := Encode(data)
	require.NoError(t, err)
	assert.Equal(t, map[byte]uint64{65: 3, 66: 1}, rec.Frequencies())
	assert.Equal(t, 4, rec.BitLen())
	out, err := rec.Decode()
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestTruncatedPayloadDecodes(t *testing.T) {
	data := []byte(strings.Repeat("abracadabra", 4))
	rec, err := Encode(data)
	require.NoError(t, err)

	// drop the last byte of payload, keeping the table
	n := (len(rec.Payload()) - 1) * 8
	short, err := NewRecord(rec.Frequencies(), rec.Payload()[:n/8], n)
	require.NoError(t, err)
	out, err := short.Decode()
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Less(t, len(out), len(data))
	// every symbol but the last comes from fully present codes
	assert.Equal(t, data[:len(out)-1], out[:len(out)-1])
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	c, err := Compress([]byte("log me"), WithLogger(log))
	require.NoError(t, err)
	_, err = Decompress(c, WithLogger(log))
	require.NoError(t, err)

	enc := logs.FilterMessage("encoded").All()
	require.Len(t, enc, 1)
	assert.EqualValues(t, 6, enc[0].ContextMap()["bytes"])
	assert.EqualValues(t, 6, enc[0].ContextMap()["symbols"])
	require.Equal(t, 1, logs.FilterMessage("decoded").Len())
}

func TestTreeCache(t *testing.T) {
	_, err := NewTreeCache(0)
	assert.Error(t, err)

	tc, err := NewTreeCache(2)
	require.NoError(t, err)
	core, logs := observer.New(zap.DebugLevel)
	opts := []Option{WithTreeCache(tc), WithLogger(zap.New(core))}

	a, err := Compress([]byte("same table"))
	require.NoError(t, err)
	b, err := Compress([]byte("table same"))
	require.NoError(t, err)
	c, err := Compress([]byte("another table"))
	require.NoError(t, err)

	for _, rec := range [][]byte{a, b, c} {
		_, err := Decompress(rec, opts...)
		require.NoError(t, err)
	}
	out, err := Decompress(b, opts...)
	require.NoError(t, err)
	assert.Equal(t, "table same", string(out))
	assert.Equal(t, 2, tc.Len())

	var hits []bool
	for _, e := range logs.FilterMessage("decoded").All() {
		hits = append(hits, e.ContextMap()["cached_tree"].(bool))
	}
	assert.Equal(t, []bool{false, true, false, true}, hits)
}

func TestWriterReader(t *testing.T) {
	for name, data := range fixtures() {
		for _, f := range formats {
			t.Run(name+"/"+f.String(), func(t *testing.T) {
				var buf bytes.Buffer
				w := NewWriter(&buf, WithFormat(f))
				// write in small pieces
				for i := 0; i < len(data); i += 7 {
					end := i + 7
					if end > len(data) {
						end = len(data)
					}
					_, err := w.Write(data[i:end])
					require.NoError(t, err)
				}
				assert.Equal(t, 0, buf.Len(), "nothing is written before Close")
				require.NoError(t, w.Close())

				want, err := Compress(data, WithFormat(f))
				require.NoError(t, err)
				assert.Equal(t, want, buf.Bytes())

				r := NewReader(bytes.NewReader(buf.Bytes()))
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())
				assert.True(t, bytes.Equal(data, got))
			})
		}
	}
}

func TestWriterClosed(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("d"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, w.Close(), ErrClosed)

	var next bytes.Buffer
	w.Reset(&next)
	_, err = w.Write([]byte("def"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	out, err := Decompress(next.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "def", string(out))
}

func TestReaderReset(t *testing.T) {
	a, err := Compress([]byte("first"))
	require.NoError(t, err)
	b, err := Compress([]byte("second"))
	require.NoError(t, err)

	r := NewReader(bytes.NewReader(a))
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	require.NoError(t, r.(Resetter).Reset(bytes.NewReader(b)))
	got, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	require.NoError(t, r.(Resetter).Reset(strings.NewReader("JMZX")))
	_, err = io.ReadAll(r)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestCompressionRatio(t *testing.T) {
	cw := tabwriter.NewWriter(os.Stderr, 0, 15, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(cw, "input\tjmz_cbor\tjmz_packed\thuff0\tstd_huffman_only\t")

	inputs := fixtures()
	rnd := rand.New(rand.NewSource(3))
	skewed := make([]byte, 64*1024)
	for i := range skewed {
		skewed[i] = byte(rnd.ExpFloat64() * 8)
	}
	inputs["skewed"] = skewed

	for name, data := range inputs {
		if len(data) == 0 {
			continue
		}
		var records []string
		for _, f := range formats {
			c, err := Compress(data, WithFormat(f))
			require.NoError(t, err)
			records = append(records, fmt.Sprintf("%.2f", float64(len(c))/float64(len(data))))
		}

		if c, _, err := huff0.Compress1X(data, nil); err == nil {
			records = append(records, fmt.Sprintf("%.2f", float64(len(c))/float64(len(data))))
		} else {
			records = append(records, "-")
		}

		var buf bytes.Buffer
		sw, _ := flate.NewWriter(&buf, flate.HuffmanOnly)
		sw.Write(data)
		sw.Close()
		records = append(records, fmt.Sprintf("%.2f", float64(buf.Len())/float64(len(data))))

		fmt.Fprintln(cw, name+"\t"+strings.Join(records, "\t")+"\t")
	}
	cw.Flush()
}

func BenchmarkCompress(b *testing.B) {
	data := opticks(b)
	b.Run("method=jmz", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		for i := 0; i < b.N; i++ {
			Compress(data)
		}
	})
	b.Run("method=flate_huffman_only", func(b *testing.B) {
		w, _ := flate.NewWriter(io.Discard, flate.HuffmanOnly)
		b.SetBytes(int64(len(data)))
		for i := 0; i < b.N; i++ {
			w.Write(data)
			w.Close()
			w.Reset(io.Discard)
		}
	})
}

func BenchmarkDecompress(b *testing.B) {
	data := opticks(b)
	for _, f := range formats {
		c, _ := Compress(data, WithFormat(f))
		b.Run("format="+f.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				Decompress(c)
			}
		})
	}
}
