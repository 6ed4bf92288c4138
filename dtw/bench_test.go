// SPDX-License-Identifier: MIT

package dtw_test

import (
	"testing"

	"github.com/katalvlaran/foldflow/dtw"
)

// benchmarkSeries runs Series on ramps of lengths n and m using opts.
func benchmarkSeries(b *testing.B, n, m int, opts dtw.Options) {
	a := make([]float64, n)
	bSeq := make([]float64, m)
	for i := range a {
		a[i] = float64(i)
	}
	for j := range bSeq {
		bSeq[j] = float64(j)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := dtw.Series(a, bSeq, &opts); err != nil {
			b.Fatalf("Series failed: %v", err)
		}
	}
}

// BenchmarkSeries_FullMatrix aligns 500×500 ramps and recovers the path.
func BenchmarkSeries_FullMatrix(b *testing.B) {
	opts := dtw.DefaultOptions()
	opts.ReturnPath = true
	benchmarkSeries(b, 500, 500, opts)
}

// BenchmarkSeries_TwoRows aligns 500×500 ramps keeping two rows.
func BenchmarkSeries_TwoRows(b *testing.B) {
	opts := dtw.DefaultOptions()
	opts.MemoryMode = dtw.TwoRows
	benchmarkSeries(b, 500, 500, opts)
}

// BenchmarkSeries_Window restricts the band to ±10 frames.
func BenchmarkSeries_Window(b *testing.B) {
	opts := dtw.DefaultOptions()
	opts.Window = 10
	benchmarkSeries(b, 500, 500, opts)
}
