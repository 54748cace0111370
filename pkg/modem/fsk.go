package modem

import (
	"math"
	"math/cmplx"
	"slices"

	"github.com/sirupsen/logrus"

	"vcmodem/pkg/dsp"
)

// FSKConfig describes a frequency-shift keying modulator. Symbol i is sent
// as a tone at Frequencies[i] Hz with constant Amplitude.
type FSKConfig struct {
	SampleRate  float64
	Amplitude   float64
	Frequencies []float64
	Baud        float64
}

type FSK struct {
	fs          float64
	baud        float64
	amplitude   float64
	frequencies []float64
	resonators  []dsp.Resonator
	sigma       float64
	report      reporter
}

func (c FSKConfig) New(opts ...Option) (*FSK, error) {
	switch {
	case c.SampleRate <= 0:
		return nil, configError("sample rate must be positive, got %g", c.SampleRate)
	case c.Baud <= 0:
		return nil, configError("baud must be positive, got %g", c.Baud)
	case len(c.Frequencies) == 0:
		return nil, configError("empty frequency alphabet")
	}
	lowest, highest := slices.Min(c.Frequencies), slices.Max(c.Frequencies)
	switch {
	case lowest <= 0:
		return nil, configError("frequencies must be positive, got %g", lowest)
	case c.Baud >= lowest:
		return nil, configError("baud %g is too high to be modulated using frequency %g", c.Baud, lowest)
	case highest >= 0.5*c.SampleRate:
		return nil, configError("maximum frequency %g is too high for sample rate %g", highest, c.SampleRate)
	case c.Amplitude > 1 || c.Amplitude <= 0:
		return nil, configError("base amplitude must be positive and at most 1, got %g", c.Amplitude)
	}

	r := newReporter("fsk", opts)
	if c.Amplitude < 0.1 {
		if err := r.warn("amplitude %g may be too small to allow reliable reconstruction", c.Amplitude); err != nil {
			return nil, err
		}
	}
	// tones closer than half a DFT bin over one symbol blur together
	minGap := 0.5 * c.Baud
	sorted := slices.Sorted(slices.Values(c.Frequencies))
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] <= minGap {
			if err := r.warn("frequencies may be too close to be distinguishable from one another"); err != nil {
				return nil, err
			}
			break
		}
	}

	resonators := make([]dsp.Resonator, len(c.Frequencies))
	for i, f := range c.Frequencies {
		res, err := dsp.Goertzel(f, c.SampleRate)
		if err != nil {
			return nil, configError("%v", err)
		}
		resonators[i] = res
	}

	// only the envelope is smoothed, at most a quarter cycle of the highest tone
	sigmaF := 0.25 * (2 * math.Pi / highest) / SigmaMultT
	m := &FSK{
		fs:          c.SampleRate,
		baud:        c.Baud,
		amplitude:   c.Amplitude,
		frequencies: slices.Clone(c.Frequencies),
		resonators:  resonators,
		sigma:       math.Min(symbolSigma(c.Baud), sigmaF),
		report:      r,
	}
	logrus.WithFields(logrus.Fields{
		"function": "FSKConfig.New",
		"baud":     c.Baud,
		"symbols":  len(c.Frequencies),
		"sigma":    m.sigma,
	}).Debug("Created FSK modulator")
	return m, nil
}

func (m *FSK) AlphabetSize() int {
	return len(m.frequencies)
}

func (m *FSK) SampleRate() float64 {
	return m.fs
}

// Modulate integrates the held frequency into a continuous phase and shapes
// only the on/off envelope at the guards.
func (m *FSK) Modulate(symbols []int) ([]float64, error) {
	freqs, err := guarded(symbols, m.frequencies)
	if err != nil {
		return nil, err
	}
	mask := make([]float64, len(freqs))
	for i := 1; i < len(mask)-1; i++ {
		mask[i] = m.amplitude
	}

	t, heldFreq := hold(m.fs, m.baud, freqs)
	heldAmp := dsp.SampleAndHold(t, m.baud, mask)
	envelope := dsp.ConvolveSame(heldAmp, dsp.GaussianWindow(m.fs, m.sigma))
	phase := dsp.CumulativeTrapezoid(heldFreq, t)

	out := make([]float64, len(t))
	for i := range out {
		out[i] = envelope[i] * math.Cos(2*math.Pi*phase[i])
	}
	return out, nil
}

func (m *FSK) Demodulate(samples []float64) ([]int, error) {
	count, err := intervalCount(len(samples), m.fs, m.baud)
	if err != nil {
		return nil, err
	}
	sps := dsp.SamplesPerSymbol(m.fs, m.baud)
	tw := transitionWidth(m.fs, m.sigma)
	last := float64(len(samples) - 1)

	obs := make([][]float64, count)
	for i := range obs {
		begin := float64(i) * sps
		end := math.Min(begin+sps, last)
		// the envelope only ramps next to the guards
		if i == 0 || i == count-2 {
			end -= tw
		}
		if i == 1 || i == count-1 {
			begin += tw
		}
		lo := max(int(math.Round(begin)), 0)
		hi := min(int(math.Round(end)), len(samples)-1)

		obs[i] = make([]float64, len(m.resonators))
		if hi <= lo {
			continue
		}
		segment := samples[lo : hi+1]
		for k, res := range m.resonators {
			obs[i][k] = 2 * cmplx.Abs(res.Last(segment)) / float64(hi-lo)
		}
	}

	codebook := make([][]float64, len(m.frequencies)+1)
	codebook[0] = make([]float64, len(m.frequencies))
	for i := range m.frequencies {
		row := make([]float64, len(m.frequencies))
		row[i] = m.amplitude
		codebook[i+1] = row
	}
	return unframe(m.report, dsp.Quantize(obs, codebook))
}
