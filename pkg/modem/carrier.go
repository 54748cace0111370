package modem

import (
	"math"
	"math/cmplx"

	"vcmodem/pkg/dsp"
)

// Carrier is a sinusoid at Freq Hz sampled at SampleRate Hz, starting at
// zero phase on sample 0.
type Carrier struct {
	Freq       float64
	SampleRate float64
}

func (c Carrier) phasor(t float64) complex128 {
	return cmplx.Exp(complex(0, 2*math.Pi*c.Freq*t))
}

// Mix moves the complex envelope iq up to the carrier and returns the real
// part, Re(iq(t) e^{j2πft}).
func (c Carrier) Mix(iq []complex128) []float64 {
	out := make([]float64, len(iq))
	for i, t := range dsp.TimeArray(c.SampleRate, len(iq)) {
		out[i] = real(iq[i] * c.phasor(t))
	}
	return out
}

// MixReal is Mix for a real envelope, a(t)cos(2πft).
func (c Carrier) MixReal(envelope []float64) []float64 {
	out := make([]float64, len(envelope))
	for i, t := range dsp.TimeArray(c.SampleRate, len(envelope)) {
		out[i] = envelope[i] * math.Cos(2*math.Pi*c.Freq*t)
	}
	return out
}

// Downconvert multiplies x by 2e^{j2πft}. A signal produced by Mix(iq)
// comes out as conj(iq) plus an image at twice the carrier frequency.
func (c Carrier) Downconvert(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, t := range dsp.TimeArray(c.SampleRate, len(x)) {
		out[i] = complex(2*x[i], 0) * c.phasor(t)
	}
	return out
}

// image returns the frequency at which the 2f mixing product appears after
// sampling, min(2f, fs-2f).
func (c Carrier) image() float64 {
	return math.Min(2*c.Freq, c.SampleRate-2*c.Freq)
}

// sigma returns the pulse shaping deviation for a carrier-mixed scheme. It
// keeps edges within a quarter symbol and puts the Gaussian roll-off below
// the halfway point to the 2f image.
func (c Carrier) sigma(baud float64) float64 {
	sigmaF := SigmaMultF / (2 * math.Pi * 0.5 * c.image())
	return math.Min(symbolSigma(baud), sigmaF)
}

// validate holds the hard limits shared by every carrier-mixed modulator.
func (c Carrier) validate(baud float64) error {
	switch {
	case c.SampleRate <= 0:
		return configError("sample rate must be positive, got %g", c.SampleRate)
	case baud <= 0:
		return configError("baud must be positive, got %g", baud)
	case c.Freq <= 0:
		return configError("carrier frequency must be positive, got %g", c.Freq)
	case baud >= 0.5*c.Freq:
		return configError("baud %g is too high to be modulated using carrier frequency %g", baud, c.Freq)
	case c.Freq >= 0.5*c.SampleRate:
		return configError("carrier frequency %g is too high for sample rate %g", c.Freq, c.SampleRate)
	}
	return nil
}

// checkAliasing warns when the 2f image folds back too close to the
// carrier for the demodulation filter to remove it.
func (c Carrier) checkAliasing(r reporter) error {
	if c.Freq >= c.SampleRate/3 {
		return r.warn("carrier frequency %g is too high to guarantee proper lowpass reconstruction at sample rate %g", c.Freq, c.SampleRate)
	}
	return nil
}
