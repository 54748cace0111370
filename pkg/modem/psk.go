package modem

import (
	"math"
	"math/cmplx"
	"slices"
)

// PSKConfig describes a phase-shift keying modulator. Symbol i is sent as a
// carrier of fixed Amplitude shifted by Phases[i] radians.
type PSKConfig struct {
	SampleRate float64
	Carrier    float64
	Amplitude  float64
	Phases     []float64
	Baud       float64
}

// PSK is a QAM modulator whose constellation lies on a circle.
type PSK struct {
	*QAM
}

func (c PSKConfig) New(opts ...Option) (*PSK, error) {
	if len(c.Phases) == 0 {
		return nil, configError("empty phase alphabet")
	}
	for _, p := range c.Phases {
		if p >= 2*math.Pi || p < 0 {
			return nil, configError("invalid phase %g, must be in [0, 2π)", p)
		}
	}
	if c.Amplitude > 1 || c.Amplitude <= 0 {
		return nil, configError("base amplitude must be positive and at most 1, got %g", c.Amplitude)
	}

	r := newReporter("psk", opts)
	if c.Amplitude < 0.1 {
		if err := r.warn("amplitude %g may be too small to allow reliable reconstruction", c.Amplitude); err != nil {
			return nil, err
		}
	}
	sorted := slices.Sorted(slices.Values(c.Phases))
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] <= 0.05*2*math.Pi {
			if err := r.warn("phases may be too close to be distinguishable from each other"); err != nil {
				return nil, err
			}
			break
		}
	}

	points := make([]complex128, len(c.Phases))
	for i, p := range c.Phases {
		points[i] = cmplx.Rect(c.Amplitude, p)
	}
	core, err := newQAM(QAMConfig{
		SampleRate:    c.SampleRate,
		Carrier:       c.Carrier,
		Constellation: points,
		Baud:          c.Baud,
	}, r)
	if err != nil {
		return nil, err
	}
	return &PSK{QAM: core}, nil
}
