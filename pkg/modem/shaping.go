package modem

import (
	"fmt"
	"math"
	"math/cmplx"

	"vcmodem/pkg/dsp"
)

// symbolSigma keeps a smoothed edge within a quarter of the symbol period.
func symbolSigma(baud float64) float64 {
	return (1 / baud) / (4 * SigmaMultT)
}

// transitionWidth is the number of samples a smoothed edge occupies.
func transitionWidth(fs, sigma float64) float64 {
	return SigmaMultT * sigma * fs
}

// guarded maps symbols onto alphabet and frames them with a zero value on
// either side.
func guarded[T any](symbols []int, alphabet []T) ([]T, error) {
	out := make([]T, len(symbols)+2)
	for i, s := range symbols {
		if s < 0 || s >= len(alphabet) {
			return nil, fmt.Errorf("%w: %d at index %d, alphabet size is %d", ErrSymbol, s, i, len(alphabet))
		}
		out[i+1] = alphabet[s]
	}
	return out, nil
}

// hold upsamples a baud-rate sequence to fs, returning the time grid with it.
func hold[T float64 | complex128](fs, baud float64, values []T) ([]float64, []T) {
	n := int(math.Ceil(float64(len(values)) * dsp.SamplesPerSymbol(fs, baud)))
	t := dsp.TimeArray(fs, n)
	return t, dsp.SampleAndHold(t, baud, values)
}

func smoothComplex(x []complex128, window []float64) []complex128 {
	re := make([]float64, len(x))
	im := make([]float64, len(x))
	for i, v := range x {
		re[i], im[i] = real(v), imag(v)
	}
	re = dsp.ConvolveSame(re, window)
	im = dsp.ConvolveSame(im, window)

	out := make([]complex128, len(x))
	for i := range out {
		out[i] = complex(re[i], im[i])
	}
	return out
}

// intervalCount is the number of symbol slots, guards included, in n samples.
func intervalCount(n int, fs, baud float64) (int, error) {
	count := int(math.Round(float64(n) / dsp.SamplesPerSymbol(fs, baud)))
	if count < 2 {
		return 0, fmt.Errorf("%w: %d samples hold %d symbol intervals, need at least 2", ErrSignalTooShort, n, count)
	}
	return count, nil
}

// baseband is the down-convert and low-pass front end shared by the
// carrier-mixed modulators.
type baseband struct {
	carrier Carrier
	baud    float64
	sigma   float64
}

// filterEdges returns the low-pass cutoffs: the passband covers the symbol
// fundamental and the stopband starts below the 2f image, or 4 kHz below it
// when that still clears the carrier.
func (b baseband) filterEdges() (low, high float64) {
	refl := b.carrier.image()
	low = 0.5 * b.baud
	high = refl - low
	if refl-4000 > b.carrier.Freq {
		high = refl - 4000
	}
	return low, high
}

// filter down-converts and low-passes samples. The result is delayed by
// offset samples and holds offset+len(samples) values.
func (b baseband) filter(samples []float64) (filtered []complex128, offset int, err error) {
	if _, err := intervalCount(len(samples), b.carrier.SampleRate, b.baud); err != nil {
		return nil, 0, err
	}
	low, high := b.filterEdges()
	h, err := dsp.LowpassFIR(b.carrier.SampleRate, low, high, dsp.DefaultAttenuationDB)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: demodulation filter: %w", ErrConfig, err)
	}
	offset = (len(h) - 1) / 2

	mixed := b.carrier.Downconvert(samples)
	mixed = append(mixed, make([]complex128, offset)...)
	return dsp.FIRFilter(h, mixed), offset, nil
}

// intervals returns the averaging window of every symbol slot in the
// filtered signal, trimmed by the transition width except at the outer
// edges of the first and last slot.
func (b baseband) intervals(n, offset int) ([][2]float64, error) {
	fs := b.carrier.SampleRate
	count, err := intervalCount(n, fs, b.baud)
	if err != nil {
		return nil, err
	}
	sps := dsp.SamplesPerSymbol(fs, b.baud)
	tw := transitionWidth(fs, b.sigma)
	last := float64(offset + n - 1)

	out := make([][2]float64, count)
	for i := range out {
		begin := float64(offset) + float64(i)*sps
		end := math.Min(begin+sps, last)
		if i != 0 {
			begin += tw
		}
		if i != count-1 {
			end -= tw
		}
		out[i] = [2]float64{begin, end}
	}
	return out, nil
}

// magnitudes averages |x| over every interval.
func (b baseband) magnitudes(samples []float64) ([]float64, error) {
	filtered, offset, err := b.filter(samples)
	if err != nil {
		return nil, err
	}
	windows, err := b.intervals(len(samples), offset)
	if err != nil {
		return nil, err
	}

	mag := make([]float64, len(filtered))
	for i, v := range filtered {
		mag[i] = cmplx.Abs(v)
	}
	out := make([]float64, len(windows))
	for i, w := range windows {
		if out[i], err = dsp.AverageInterval(mag, w[0], w[1]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// envelopes averages the complex envelope over every interval.
func (b baseband) envelopes(samples []float64) ([]complex128, error) {
	filtered, offset, err := b.filter(samples)
	if err != nil {
		return nil, err
	}
	windows, err := b.intervals(len(samples), offset)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(windows))
	for i, w := range windows {
		avg, err := dsp.AverageIntervalComplex(filtered, w[0], w[1])
		if err != nil {
			return nil, err
		}
		out[i] = cmplx.Conj(avg)
	}
	return out, nil
}

// unframe maps codebook indices (0 is silence) back to symbols and strips
// the guards. Silence where data is expected, or data where a guard is
// expected, raises a warning.
func unframe(r reporter, indices []int) ([]int, error) {
	symbols := make([]int, len(indices))
	corrupted := false
	for i, idx := range indices {
		symbols[i] = idx - 1
		guard := i == 0 || i == len(indices)-1
		if guard != (symbols[i] == -1) {
			corrupted = true
		}
	}
	data := symbols[1 : len(symbols)-1]
	if corrupted {
		return data, r.warn("corrupted datastream detected while demodulating")
	}
	return data, nil
}
