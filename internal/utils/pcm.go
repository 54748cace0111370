package utils

import "math"

// FloatToPCM scales samples in [-1, 1] to signed integers of bitDepth bits,
// saturating values outside the range.
func FloatToPCM(samples []float64, bitDepth int) []int {
	full := float64(int64(1)<<(bitDepth-1)) - 1
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * full))
	}
	return out
}

// PCMToFloat is the inverse of FloatToPCM.
func PCMToFloat(data []int, bitDepth int) []float64 {
	full := float64(int64(1)<<(bitDepth-1)) - 1
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = math.Max(-1, float64(v)/full)
	}
	return out
}
