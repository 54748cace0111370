package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// GaussianWindow returns an odd-length Gaussian kernel with standard
// deviation sigma seconds at sample rate fs. The taps sum to one so the
// kernel has unit DC gain.
func GaussianWindow(fs, sigma float64) []float64 {
	sigmaSamples := sigma * fs
	if sigmaSamples <= 0 {
		return []float64{1}
	}
	m := int(math.Ceil(6*sigmaSamples + 1))
	if m%2 == 0 {
		m++
	}

	w := make([]float64, m)
	center := float64(m-1) / 2
	for n := range w {
		x := (float64(n) - center) / sigmaSamples
		w[n] = math.Exp(-0.5 * x * x)
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}
