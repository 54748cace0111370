package config

import (
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcmodem/pkg/ecc"
	"vcmodem/pkg/modem"
	"vcmodem/pkg/symbols"
)

const example = `
version: "1"
fs: 48000
ecc: hamming_7_4
modulators:
  - mode: ask
    baud: 250
    carrier: 1000
    amplitudes: [0.1, 0.4, 0.7, 1.0]
  - mode: psk
    baud: 250
    carrier: 2000
    phases: "0, 0.25, 0.5, 0.75"
  - mode: qam
    baud: 250
    carrier: 2000
    constellation: ["1+0i", "0+1j", "(1, 0.5)", "(0.5-0.5j)"]
  - mode: fsk
    baud: 300
    amplitude: 0.5
    frequencies: [1200, 2200]
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(example))
	require.NoError(t, err)

	assert.Equal(t, "1", c.Version)
	assert.Equal(t, 48000.0, c.SampleRate)
	assert.Equal(t, ecc.ModeHamming74, c.ECC)
	require.Len(t, c.Modulators, 4)

	ask := c.Modulators[0]
	assert.Equal(t, ModeASK, ask.Mode)
	assert.Equal(t, 250.0, ask.Baud)
	assert.Equal(t, 1000.0, ask.Carrier)
	assert.Equal(t, []float64{0.1, 0.4, 0.7, 1.0}, ask.Amplitudes)
	assert.Equal(t, 6, ask.Line)

	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75}, c.Modulators[1].Phases)

	points := c.Modulators[2].Constellation
	require.Len(t, points, 4)
	assert.Equal(t, complex(1, 0), points[0])
	assert.Equal(t, complex(0, 1), points[1])
	assert.InDelta(t, 0, cmplx.Abs(points[2]+1), 1e-12)
	assert.Equal(t, complex(0.5, -0.5), points[3])

	fsk := c.Modulators[3]
	assert.Equal(t, 0.5, fsk.Amplitude)
	assert.Equal(t, []float64{1200, 2200}, fsk.Frequencies)
}

func TestModems(t *testing.T) {
	c, err := Parse([]byte(example))
	require.NoError(t, err)

	modems, err := c.Modems(modem.Strict())
	require.NoError(t, err)
	require.Len(t, modems, 4)

	assert.IsType(t, &modem.ASK{}, modems[0])
	assert.IsType(t, &modem.PSK{}, modems[1])
	assert.IsType(t, &modem.QAM{}, modems[2])
	assert.IsType(t, &modem.FSK{}, modems[3])
	for _, m := range modems {
		assert.Equal(t, 48000.0, m.SampleRate())
	}
	assert.Equal(t, []int{4, 4, 4, 2}, []int{
		modems[0].AlphabetSize(),
		modems[1].AlphabetSize(),
		modems[2].AlphabetSize(),
		modems[3].AlphabetSize(),
	})

	codec, err := c.Codec()
	require.NoError(t, err)
	assert.Equal(t, ecc.Hamming74{}, codec)

	p, err := c.PhysicalLayer()
	require.NoError(t, err)
	assert.Equal(t, symbols.Base4, p.Codec())
	assert.Equal(t, ecc.Hamming74{}, p.ECC)
}

func TestModemsEightPhasePSK(t *testing.T) {
	c, err := Parse([]byte(`
version: "1"
fs: 48000
ecc: none
modulators:
  - mode: psk
    baud: 250
    carrier: 2000
    phases: [0, 0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875]
`))
	require.NoError(t, err)

	modems, err := c.Modems(modem.Strict())
	require.NoError(t, err)
	require.Len(t, modems, 1)
	m := modems[0]
	require.Equal(t, 8, m.AlphabetSize())

	input := symbols.Base8.Encode([]byte("phase"))
	samples, err := m.Modulate(input)
	require.NoError(t, err)
	output, err := m.Demodulate(samples)
	require.NoError(t, err)
	assert.Equal(t, input, output)
}

func TestModemsInvalid(t *testing.T) {
	// valid syntax, but the carrier is above the Nyquist limit
	c, err := Parse([]byte(`
version: "1"
fs: 1000
ecc: none
modulators:
  - mode: ask
    baud: 20
    carrier: 600
    amplitudes: 0.5, 1
`))
	require.NoError(t, err)

	_, err = c.Modems()
	assert.ErrorIs(t, err, modem.ErrConfig)
	assert.ErrorContains(t, err, "line 6")
	_, err = c.PhysicalLayer()
	assert.ErrorIs(t, err, modem.ErrConfig)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
	}{
		{"empty", ``, "empty document"},
		{"not a mapping", `[1, 2]`, "expected a mapping"},
		{"syntax", "version: [", ""},
		{"missing fs", `
version: "1"
ecc: none
modulators: [{mode: fsk, baud: 10, amplitude: 1, frequencies: [100]}]
`, "fs: required key not found"},
		{"negative fs", `
version: "1"
fs: -1
ecc: none
modulators: [{mode: fsk, baud: 10, amplitude: 1, frequencies: [100]}]
`, "sampling frequency must be positive"},
		{"fs not a number", `
version: "1"
fs: fast
ecc: none
modulators: [{mode: fsk, baud: 10, amplitude: 1, frequencies: [100]}]
`, "not a finite number"},
		{"unknown ecc", `
version: "1"
fs: 8000
ecc: reed_solomon
modulators: [{mode: fsk, baud: 10, amplitude: 1, frequencies: [100]}]
`, "expected one of"},
		{"unexpected top level key", `
version: "1"
fs: 8000
ecc: none
extra: 1
modulators: [{mode: fsk, baud: 10, amplitude: 1, frequencies: [100]}]
`, "extra: unexpected key"},
		{"modulators not a list", `
version: "1"
fs: 8000
ecc: none
modulators: {mode: fsk}
`, "non-empty list"},
		{"no modulators", `
version: "1"
fs: 8000
ecc: none
modulators: []
`, "non-empty list"},
		{"unknown mode", `
version: "1"
fs: 8000
ecc: none
modulators: [{mode: ofdm, baud: 10}]
`, "unknown modulator mode"},
		{"missing mode", `
version: "1"
fs: 8000
ecc: none
modulators: [{baud: 10, amplitude: 1, frequencies: [100]}]
`, "unknown modulator mode"},
		{"field of another mode", `
version: "1"
fs: 8000
ecc: none
modulators: [{mode: fsk, baud: 10, amplitude: 1, frequencies: [100], carrier: 1000}]
`, "modulators[0].carrier: unexpected key"},
		{"missing alphabet", `
version: "1"
fs: 8000
ecc: none
modulators: [{mode: ask, baud: 10, carrier: 1000}]
`, "modulators[0].amplitudes: required key not found"},
		{"duplicate entries", `
version: "1"
fs: 8000
ecc: none
modulators: [{mode: ask, baud: 10, carrier: 1000, amplitudes: [0.5, 0.5]}]
`, "duplicate entry"},
		{"empty alphabet", `
version: "1"
fs: 8000
ecc: none
modulators: [{mode: psk, baud: 10, carrier: 1000, phases: []}]
`, "empty alphabet"},
		{"nested alphabet", `
version: "1"
fs: 8000
ecc: none
modulators: [{mode: fsk, baud: 10, amplitude: 1, frequencies: [[100]]}]
`, "expected a scalar"},
		{"bad complex", `
version: "1"
fs: 8000
ecc: none
modulators: [{mode: qam, baud: 10, carrier: 1000, constellation: [garbage]}]
`, "not a complex number"},
		{"second modulator", `
version: "1"
fs: 8000
ecc: none
modulators:
  - {mode: fsk, baud: 10, amplitude: 1, frequencies: [100]}
  - {mode: fsk, baud: ten, amplitude: 1, frequencies: [100]}
`, "line 7: modulators[1].baud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalid)
			assert.ErrorContains(t, err, tt.message)
		})
	}
}

func TestParseComplex(t *testing.T) {
	tests := []struct {
		in   string
		want complex128
	}{
		{"1+1i", 1 + 1i},
		{"1+1j", 1 + 1i},
		{"(1+1j)", 1 + 1i},
		{" -0.5-2j ", -0.5 - 2i},
		{"3", 3},
		{"2j", 2i},
		{"(1,0.5)", -1},
		{"(2, 0.25)", 2i},
		{"(1e-1,0)", 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComplex(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, 0, cmplx.Abs(got-tt.want), 1e-12)
		})
	}
}

func TestParseComplexInvalid(t *testing.T) {
	for _, in := range []string{"garbage", "(aa,bb)", "", "1,2", "(1,2,3)", "inf", "(nan+1j)"} {
		_, err := ParseComplex(in)
		assert.Error(t, err, in)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"1", " 2", " 3"}, splitList("1, 2, 3"))
	assert.Equal(t, []string{"(1, 0.5)", " (1,0)"}, splitList("(1, 0.5), (1,0)"))
	assert.Empty(t, splitList("  "))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(example), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Modulators, 4)
	assert.InDelta(t, math.Pi/2, 2*math.Pi*c.Modulators[1].Phases[1], 1e-12)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
