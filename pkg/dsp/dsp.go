// Package dsp holds the signal helpers shared by the modulators: time grids,
// resampling, pulse shaping windows, filter design and interval averaging.
package dsp

import (
	"errors"
	"math"
)

// ErrDomain reports an argument outside the range an operation accepts.
var ErrDomain = errors.New("argument out of domain")

// TimeArray returns n sample instants i/fs, starting exactly at 0.
func TimeArray(fs float64, n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / fs
	}
	return t
}

func SamplesPerSymbol(fs, baud float64) float64 {
	return fs / baud
}

// SampleAndHold resamples a sequence clocked at baud onto the instants t,
// holding each value until the next one. Instants before the first value or
// after the last one map to zero.
func SampleAndHold[T float64 | complex128](t []float64, baud float64, values []T) []T {
	out := make([]T, len(t))
	last := float64(len(values) - 1)
	for i, ti := range t {
		x := ti * baud
		if x < 0 || x > last {
			continue
		}
		out[i] = values[int(math.Floor(x))]
	}
	return out
}

// CumulativeTrapezoid integrates y over the abscissae x, returning the
// running integral with a leading zero so the result has len(y) samples.
func CumulativeTrapezoid(y, x []float64) []float64 {
	out := make([]float64, len(y))
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + 0.5*(y[i]+y[i-1])*(x[i]-x[i-1])
	}
	return out
}
