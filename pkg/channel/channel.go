package channel

import (
	"math"
	"math/cmplx"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"vcmodem/pkg/dsp"
)

// Channel models the medium between a transmitter and a receiver. Transmit
// never modifies its input.
type Channel interface {
	Transmit(samples []float64) []float64
}

// Loopback passes samples through unchanged.
type Loopback struct{}

func (Loopback) Transmit(samples []float64) []float64 {
	return slices.Clone(samples)
}

// PhaseShift rotates every frequency component by Radians using the
// analytic signal, as a carrier phase offset would.
type PhaseShift struct {
	Radians float64
}

func (p PhaseShift) Transmit(samples []float64) []float64 {
	rot := cmplx.Rect(1, p.Radians)
	z := dsp.Analytic(samples)
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = real(v * rot)
	}
	return out
}

// Dropout silences the samples between the fractions From and To of the
// signal length.
type Dropout struct {
	From, To float64
}

func (d Dropout) Transmit(samples []float64) []float64 {
	out := slices.Clone(samples)
	n := float64(len(out))
	lo := min(max(int(d.From*n), 0), len(out))
	hi := min(max(int(d.To*n), lo), len(out))
	clear(out[lo:hi])
	return out
}

// Gain scales the signal.
type Gain struct {
	Factor float64
}

func (g Gain) Transmit(samples []float64) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = g.Factor * v
	}
	return out
}

// AWGN adds white Gaussian noise of standard deviation Sigma. The same Seed
// gives the same noise.
type AWGN struct {
	Sigma float64
	Seed  uint64
}

func (a AWGN) Transmit(samples []float64) []float64 {
	out := slices.Clone(samples)
	if a.Sigma <= 0 {
		return out
	}
	noise := distuv.Normal{Mu: 0, Sigma: a.Sigma, Src: rand.NewSource(a.Seed)}
	var power float64
	for i := range out {
		out[i] += noise.Rand()
		power += samples[i] * samples[i]
	}
	if len(samples) > 0 {
		power /= float64(len(samples))
	}
	logrus.WithFields(logrus.Fields{
		"function": "AWGN.Transmit",
		"sigma":    a.Sigma,
		"snr_db":   10 * math.Log10(power/(a.Sigma*a.Sigma)),
	}).Debug("Added noise")
	return out
}

// Chain applies its channels in order.
type Chain []Channel

func (c Chain) Transmit(samples []float64) []float64 {
	out := slices.Clone(samples)
	for _, ch := range c {
		out = ch.Transmit(out)
	}
	return out
}
