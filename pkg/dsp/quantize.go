package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Nearest returns the index of the codebook vector closest to obs in
// Euclidean distance. Ties resolve to the lowest index. It returns -1 for an
// empty codebook.
func Nearest(obs []float64, codebook [][]float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, code := range codebook {
		if d := floats.Distance(obs, code, 2); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Quantize maps every observation to its nearest codebook index.
func Quantize(obs [][]float64, codebook [][]float64) []int {
	out := make([]int, len(obs))
	for i, o := range obs {
		out[i] = Nearest(o, codebook)
	}
	return out
}
