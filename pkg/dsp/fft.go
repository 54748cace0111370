package dsp

import (
	"math/bits"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Convolve returns the full linear convolution of a and b, computed
// through the FFT.
func Convolve(a, b []float64) []float64 {
	full := convolve(toComplex(a), toComplex(b))
	out := make([]float64, len(full))
	for i, v := range full {
		out[i] = real(v)
	}
	return out
}

// ConvolveSame returns the part of the full convolution of x and kernel
// that is centred on x and has the same length.
func ConvolveSame(x, kernel []float64) []float64 {
	full := Convolve(x, kernel)
	if len(full) == 0 {
		return full
	}
	start := (len(kernel) - 1) / 2
	return full[start : start+len(x)]
}

// FIRFilter applies the causal FIR filter h to x. The output is truncated
// to len(x) samples, so the first len(h)-1 outputs carry the filter's
// start-up transient.
func FIRFilter(h []float64, x []complex128) []complex128 {
	full := convolve(toComplex(h), x)
	if len(full) == 0 {
		return full
	}
	return full[:len(x)]
}

// Analytic returns the analytic signal of x, whose real part is x and whose
// imaginary part is its Hilbert transform.
func Analytic(x []float64) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}
	fft := fourier.NewCmplxFFT(n)
	spectrum := fft.Coefficients(nil, toComplex(x))

	// keep DC (and Nyquist for even n), double positive, drop negative
	for i := 1; i < n; i++ {
		switch {
		case 2*i < n:
			spectrum[i] *= 2
		case 2*i > n:
			spectrum[i] = 0
		}
	}
	return inverse(fft, spectrum)
}

func convolve(a, b []complex128) []complex128 {
	if len(a) == 0 || len(b) == 0 {
		return []complex128{}
	}
	n := len(a) + len(b) - 1
	size := 1 << bits.Len(uint(n-1))

	fft := fourier.NewCmplxFFT(size)
	fa := fft.Coefficients(nil, zeroPad(a, size))
	fb := fft.Coefficients(nil, zeroPad(b, size))
	for i := range fa {
		fa[i] *= fb[i]
	}
	return inverse(fft, fa)[:n]
}

// inverse undoes Coefficients. The backward transform is unnormalized.
func inverse(fft *fourier.CmplxFFT, spectrum []complex128) []complex128 {
	seq := fft.Sequence(nil, spectrum)
	scale := complex(1/float64(len(seq)), 0)
	for i := range seq {
		seq[i] *= scale
	}
	return seq
}

func zeroPad(x []complex128, n int) []complex128 {
	out := make([]complex128, n)
	copy(out, x)
	return out
}

func toComplex(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	return out
}
