package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Resonator is a single-bin Goertzel detector expressed as an IIR filter
// with numerator B and denominator A (A[0] == 1).
type Resonator struct {
	B [2]complex128
	A [3]float64
}

// Goertzel returns the resonator tuned to freq at sample rate fs.
func Goertzel(freq, fs float64) (Resonator, error) {
	if freq >= fs/2 {
		return Resonator{}, fmt.Errorf("%w: frequency %g is not below the nyquist frequency %g", ErrDomain, freq, fs/2)
	}
	w := 2 * math.Pi * freq / fs
	return Resonator{
		B: [2]complex128{1, -cmplx.Exp(complex(0, -w))},
		A: [3]float64{1, -2 * math.Cos(w), 1},
	}, nil
}

// Last runs the filter over x from rest and returns the final output sample.
// Its magnitude grows with the energy of x at the tuned frequency.
func (r Resonator) Last(x []float64) complex128 {
	var y, y1, y2 complex128
	var x1 float64
	for _, xn := range x {
		y = r.B[0]*complex(xn, 0) + r.B[1]*complex(x1, 0) -
			complex(r.A[1], 0)*y1 - complex(r.A[2], 0)*y2
		y2, y1 = y1, y
		x1 = xn
	}
	return y
}
