package modem

import (
	"slices"

	"github.com/sirupsen/logrus"

	"vcmodem/pkg/dsp"
)

// ASKConfig describes an amplitude-shift keying modulator. Symbol i is sent
// as a carrier burst of amplitude Amplitudes[i].
type ASKConfig struct {
	SampleRate float64
	Carrier    float64
	Amplitudes []float64
	Baud       float64
}

type ASK struct {
	baseband
	amplitudes []float64
	report     reporter
}

func (c ASKConfig) New(opts ...Option) (*ASK, error) {
	carrier := Carrier{Freq: c.Carrier, SampleRate: c.SampleRate}
	if err := carrier.validate(c.Baud); err != nil {
		return nil, err
	}
	if len(c.Amplitudes) == 0 {
		return nil, configError("empty amplitude alphabet")
	}
	for _, a := range c.Amplitudes {
		if a > 1 || a <= 0 {
			return nil, configError("invalid amplitude %g, must be in (0, 1]", a)
		}
	}

	r := newReporter("ask", opts)
	if err := carrier.checkAliasing(r); err != nil {
		return nil, err
	}
	if slices.Min(c.Amplitudes) < 0.1 {
		if err := r.warn("some amplitudes may be too low to be distinguishable from background noise"); err != nil {
			return nil, err
		}
	}
	sorted := slices.Sorted(slices.Values(c.Amplitudes))
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] <= 0.05 {
			if err := r.warn("amplitudes may be too close to be distinguishable from each other"); err != nil {
				return nil, err
			}
			break
		}
	}

	m := &ASK{
		baseband: baseband{
			carrier: carrier,
			baud:    c.Baud,
			sigma:   carrier.sigma(c.Baud),
		},
		amplitudes: slices.Clone(c.Amplitudes),
		report:     r,
	}
	logrus.WithFields(logrus.Fields{
		"function": "ASKConfig.New",
		"carrier":  c.Carrier,
		"baud":     c.Baud,
		"symbols":  len(c.Amplitudes),
		"sigma":    m.sigma,
	}).Debug("Created ASK modulator")
	return m, nil
}

func (m *ASK) AlphabetSize() int {
	return len(m.amplitudes)
}

func (m *ASK) SampleRate() float64 {
	return m.carrier.SampleRate
}

func (m *ASK) Modulate(symbols []int) ([]float64, error) {
	values, err := guarded(symbols, m.amplitudes)
	if err != nil {
		return nil, err
	}
	_, held := hold(m.carrier.SampleRate, m.baud, values)
	shaped := dsp.ConvolveSame(held, dsp.GaussianWindow(m.carrier.SampleRate, m.sigma))
	return m.carrier.MixReal(shaped), nil
}

// Demodulate averages the envelope magnitude, so a constant phase offset of
// the received carrier has no effect.
func (m *ASK) Demodulate(samples []float64) ([]int, error) {
	mags, err := m.magnitudes(samples)
	if err != nil {
		return nil, err
	}

	codebook := make([][]float64, 0, len(m.amplitudes)+1)
	codebook = append(codebook, []float64{0})
	for _, a := range m.amplitudes {
		codebook = append(codebook, []float64{a})
	}
	obs := make([][]float64, len(mags))
	for i, v := range mags {
		obs[i] = []float64{v}
	}
	return unframe(m.report, dsp.Quantize(obs, codebook))
}
