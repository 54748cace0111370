package dsp

import (
	"fmt"
	"math"
)

type tap struct {
	index  int
	weight float64
}

// AverageInterval returns the mean of the piecewise-linear interpolant of
// data over the fractional index range [begin, end]. When begin == end it
// returns the interpolated value at that point.
func AverageInterval(data []float64, begin, end float64) (float64, error) {
	taps, width, err := intervalTaps(len(data), begin, end)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range taps {
		sum += t.weight * data[t.index]
	}
	return sum / width, nil
}

// AverageIntervalComplex is AverageInterval over complex samples.
func AverageIntervalComplex(data []complex128, begin, end float64) (complex128, error) {
	taps, width, err := intervalTaps(len(data), begin, end)
	if err != nil {
		return 0, err
	}
	var sum complex128
	for _, t := range taps {
		sum += complex(t.weight, 0) * data[t.index]
	}
	return sum / complex(width, 0), nil
}

// intervalTaps turns the trapezoidal integral over [begin, end] into a
// weighted sum of samples and the width to divide it by. Each segment
// [i, i+1] clipped to the interval contributes its partial trapezoid to both
// endpoints.
func intervalTaps(n int, begin, end float64) ([]tap, float64, error) {
	switch {
	case end < begin:
		return nil, 0, fmt.Errorf("%w: interval end %g must not be smaller than begin %g", ErrDomain, end, begin)
	case begin < 0 || end > float64(n-1):
		return nil, 0, fmt.Errorf("%w: interval [%g, %g] outside sample range [0, %d]", ErrDomain, begin, end, n-1)
	}

	if begin == end {
		i := int(math.Floor(begin))
		frac := begin - float64(i)
		if frac == 0 {
			return []tap{{i, 1}}, 1, nil
		}
		return []tap{{i, 1 - frac}, {i + 1, frac}}, 1, nil
	}

	first := int(math.Floor(begin))
	last := int(math.Ceil(end)) - 1
	weights := make([]float64, last-first+2)
	for i := first; i <= last; i++ {
		s := math.Max(begin, float64(i)) - float64(i)
		u := math.Min(end, float64(i+1)) - float64(i)
		half := (u - s) / 2
		weights[i-first] += half * ((1 - s) + (1 - u))
		weights[i-first+1] += half * (s + u)
	}

	taps := make([]tap, 0, len(weights))
	for k, w := range weights {
		if w != 0 {
			taps = append(taps, tap{first + k, w})
		}
	}
	return taps, end - begin, nil
}
