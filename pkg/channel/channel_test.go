package channel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"vcmodem/pkg/dsp"
)

func tone(freq, fs float64, n int) []float64 {
	out := make([]float64, n)
	for i, t := range dsp.TimeArray(fs, n) {
		out[i] = math.Cos(2 * math.Pi * freq * t)
	}
	return out
}

func TestLoopback(t *testing.T) {
	in := []float64{1, -2, 3}
	out := Loopback{}.Transmit(in)
	assert.Equal(t, in, out)

	out[0] = 7
	assert.Equal(t, 1.0, in[0])
}

func TestPhaseShift(t *testing.T) {
	// an integer number of periods keeps the Hilbert transform exact
	in := tone(1000, 8000, 64)

	tests := []struct {
		name    string
		radians float64
	}{
		{"quarter", math.Pi / 2},
		{"half", math.Pi},
		{"arbitrary", 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := PhaseShift{Radians: tt.radians}.Transmit(in)
			require.Len(t, out, len(in))
			for i, x := range dsp.TimeArray(8000, len(in)) {
				want := math.Cos(2*math.Pi*1000*x + tt.radians)
				assert.InDelta(t, want, out[i], 1e-9)
			}
		})
	}
}

func TestPhaseShiftEmpty(t *testing.T) {
	assert.Empty(t, PhaseShift{Radians: 1}.Transmit(nil))
}

func TestDropout(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	tests := []struct {
		name     string
		from, to float64
		want     []float64
	}{
		{"second half", 0.5, 1, []float64{1, 2, 3, 4, 0, 0, 0, 0}},
		{"middle", 0.25, 0.5, []float64{1, 2, 0, 0, 5, 6, 7, 8}},
		{"empty range", 0.5, 0.25, []float64{1, 2, 3, 4, 5, 6, 7, 8}},
		{"clamped", -1, 2, []float64{0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dropout{From: tt.from, To: tt.to}.Transmit(in))
		})
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, in)
}

func TestGain(t *testing.T) {
	assert.Equal(t, []float64{0.5, -1, 0}, Gain{Factor: 0.5}.Transmit([]float64{1, -2, 0}))
}

func TestAWGN(t *testing.T) {
	in := make([]float64, 20000)
	ch := AWGN{Sigma: 0.1, Seed: 1}

	out := ch.Transmit(in)
	require.Len(t, out, len(in))
	assert.InDelta(t, 0, stat.Mean(out, nil), 0.005)
	assert.InDelta(t, 0.1, stat.StdDev(out, nil), 0.005)
	assert.Equal(t, out, ch.Transmit(in))
	assert.NotEqual(t, out, AWGN{Sigma: 0.1, Seed: 2}.Transmit(in))
	assert.Equal(t, 0.0, floats.Norm(in, 2))

	assert.Equal(t, []float64{1, 2}, AWGN{}.Transmit([]float64{1, 2}))
}

func TestChain(t *testing.T) {
	ch := Chain{Gain{Factor: 2}, Dropout{From: 0, To: 0.5}, Loopback{}}
	var _ Channel = ch

	assert.Equal(t, []float64{0, 0, 6, 8}, ch.Transmit([]float64{1, 2, 3, 4}))
	assert.Equal(t, []float64{1, 2}, Chain{}.Transmit([]float64{1, 2}))
}
