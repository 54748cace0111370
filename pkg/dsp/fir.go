package dsp

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// DefaultAttenuationDB is the stopband attenuation targeted by the
// demodulator low-pass filters.
const DefaultAttenuationDB = 80

// TapCount estimates the FIR length needed for a transition band of width
// hz and the given stopband attenuation (fred harris rule of thumb). The
// result is always odd.
func TapCount(fs, width, attenuationDB float64) int {
	n := int(math.Ceil(fs / width * attenuationDB / 22))
	if n%2 == 0 {
		n++
	}
	return n
}

// LowpassFIR designs a linear-phase low-pass filter by least squares with
// unit gain on [0, low] and zero gain on [high, fs/2]. The transition band
// is left unconstrained.
func LowpassFIR(fs, low, high, attenuationDB float64) ([]float64, error) {
	nyquist := fs / 2
	switch {
	case low < 0 || low >= high:
		return nil, fmt.Errorf("%w: cutoffs must satisfy 0 <= low < high, got %g and %g", ErrDomain, low, high)
	case low >= nyquist || high >= nyquist:
		return nil, fmt.Errorf("%w: cutoffs %g and %g must be below the nyquist frequency %g", ErrDomain, low, high, nyquist)
	case attenuationDB <= 0:
		return nil, fmt.Errorf("%w: attenuation must be positive, got %g", ErrDomain, attenuationDB)
	}

	taps := TapCount(fs, high-low, attenuationDB)
	m := (taps - 1) / 2
	lo, hi := low/nyquist, high/nyquist

	q := make([]float64, taps)
	for n := range q {
		x := float64(n)
		q[n] = lo*sinc(lo*x) + sinc(x) - hi*sinc(hi*x)
	}

	gram := mat.NewDense(m+1, m+1, nil)
	b := mat.NewVecDense(m+1, nil)
	for i := 0; i <= m; i++ {
		for j := 0; j <= m; j++ {
			d := i - j
			if d < 0 {
				d = -d
			}
			gram.Set(i, j, q[d]+q[i+j])
		}
		b.SetVec(i, lo*sinc(lo*float64(i)))
	}

	var a mat.VecDense
	if err := a.SolveVec(gram, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: least squares design failed: %v", ErrDomain, err)
		}
		logrus.WithFields(logrus.Fields{
			"function":  "LowpassFIR",
			"taps":      taps,
			"condition": float64(cond),
		}).Debug("Ill-conditioned filter design")
	}

	h := make([]float64, taps)
	h[m] = 2 * a.AtVec(0)
	for k := 1; k <= m; k++ {
		h[m-k] = a.AtVec(k)
		h[m+k] = a.AtVec(k)
	}

	logrus.WithFields(logrus.Fields{
		"function": "LowpassFIR",
		"fs":       fs,
		"low":      low,
		"high":     high,
		"taps":     taps,
	}).Debug("Designed low-pass filter")
	return h, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}
