package modem

import (
	"math"
	"math/cmplx"
	"slices"

	"github.com/sirupsen/logrus"

	"vcmodem/pkg/dsp"
)

// QAMConfig describes a quadrature amplitude modulator. Symbol i is sent as
// the complex envelope Constellation[i] on the carrier.
type QAMConfig struct {
	SampleRate    float64
	Carrier       float64
	Constellation []complex128
	Baud          float64
}

// magnitudeTolerance absorbs the rounding of points built from polar form,
// such as cmplx.Rect(1, 5*math.Pi/4).
const magnitudeTolerance = 1e-12

type QAM struct {
	baseband
	points []complex128
	report reporter
}

func (c QAMConfig) New(opts ...Option) (*QAM, error) {
	return newQAM(c, newReporter("qam", opts))
}

func newQAM(c QAMConfig, r reporter) (*QAM, error) {
	carrier := Carrier{Freq: c.Carrier, SampleRate: c.SampleRate}
	if err := carrier.validate(c.Baud); err != nil {
		return nil, err
	}
	if len(c.Constellation) == 0 {
		return nil, configError("empty constellation")
	}
	for _, p := range c.Constellation {
		if mag := cmplx.Abs(p); mag > 1+magnitudeTolerance || mag <= 0 {
			return nil, configError("magnitude of constellation point %v must be in (0, 1], got %g", p, mag)
		}
	}

	for _, p := range c.Constellation {
		if cmplx.Abs(p) < 0.1 {
			if err := r.warn("some amplitudes may be too low to be distinguishable from background noise"); err != nil {
				return nil, err
			}
			break
		}
	}
	if err := carrier.checkAliasing(r); err != nil {
		return nil, err
	}
	if minDistance(c.Constellation) <= 0.05 {
		if err := r.warn("constellation points may be too close to be distinguishable from each other"); err != nil {
			return nil, err
		}
	}

	m := &QAM{
		baseband: baseband{
			carrier: carrier,
			baud:    c.Baud,
			sigma:   carrier.sigma(c.Baud),
		},
		points: slices.Clone(c.Constellation),
		report: r,
	}
	logrus.WithFields(logrus.Fields{
		"function": "QAMConfig.New",
		"variant":  r.name,
		"carrier":  c.Carrier,
		"baud":     c.Baud,
		"symbols":  len(c.Constellation),
		"sigma":    m.sigma,
	}).Debug("Created QAM modulator")
	return m, nil
}

// minDistance returns the smallest pairwise distance, or +Inf for fewer
// than two points.
func minDistance(points []complex128) float64 {
	best := math.Inf(1)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			best = min(best, cmplx.Abs(points[i]-points[j]))
		}
	}
	return best
}

func (m *QAM) AlphabetSize() int {
	return len(m.points)
}

func (m *QAM) SampleRate() float64 {
	return m.carrier.SampleRate
}

func (m *QAM) Modulate(symbols []int) ([]float64, error) {
	values, err := guarded(symbols, m.points)
	if err != nil {
		return nil, err
	}
	_, held := hold(m.carrier.SampleRate, m.baud, values)
	shaped := smoothComplex(held, dsp.GaussianWindow(m.carrier.SampleRate, m.sigma))
	return m.carrier.Mix(shaped), nil
}

func (m *QAM) Demodulate(samples []float64) ([]int, error) {
	points, err := m.envelopes(samples)
	if err != nil {
		return nil, err
	}

	codebook := make([][]float64, 0, len(m.points)+1)
	codebook = append(codebook, []float64{0, 0})
	for _, p := range m.points {
		codebook = append(codebook, []float64{real(p), imag(p)})
	}
	obs := make([][]float64, len(points))
	for i, p := range points {
		obs[i] = []float64{real(p), imag(p)}
	}
	return unframe(m.report, dsp.Quantize(obs, codebook))
}
