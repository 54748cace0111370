package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"vcmodem/internal/utils"
	"vcmodem/pkg/async"
	"vcmodem/pkg/channel"
	"vcmodem/pkg/layers"
)

const (
	formatWAV = "wav"
	formatRaw = "raw"
)

func checkFormat(format string) error {
	if format != formatWAV && format != formatRaw {
		return fmt.Errorf("%w: unknown format %q, expected %s or %s", errUsage, format, formatWAV, formatRaw)
	}
	return nil
}

// wavRate converts the configured sample rate to the integer rate a WAV
// header carries.
func wavRate(fs float64) (int, error) {
	if fs != math.Trunc(fs) || fs > math.MaxInt32 {
		return 0, fmt.Errorf("sample rate %g cannot be stored in a WAV file, use --format raw", fs)
	}
	return int(fs), nil
}

func transmit(args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("transmit", stderr)
	output := fs.StringP("output", "o", "modulated.wav", "Output file for audio")
	format := fs.String("format", formatWAV, "Output format: wav (16-bit PCM) or raw (float64 little endian)")
	force := fs.Bool("force", false, "Overwrite an existing output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input, err := singleFile(fs)
	if err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	if err := utils.CheckOutput(*output, *force); err != nil {
		return err
	}

	layer, err := cfg.PhysicalLayer()
	if err != nil {
		return err
	}
	data, err := utils.ReadBinary[byte](input)
	if err != nil {
		return err
	}
	samples, err := layer.Encode(data)
	if err != nil {
		return err
	}

	switch *format {
	case formatWAV:
		rate, err := wavRate(cfg.SampleRate)
		if err != nil {
			return err
		}
		err = utils.WriteWAV(*output, samples, rate)
		if err != nil {
			return err
		}
	case formatRaw:
		if err := utils.WriteBinary(*output, samples); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "transmit",
		"input":    input,
		"output":   *output,
		"bytes":    len(data),
		"samples":  len(samples),
	}).Info("Modulated file")
	fmt.Fprintf(stdout, "wrote %d samples (%.2f s) to %s\n", len(samples), float64(len(samples))/cfg.SampleRate, *output)
	return nil
}

func receive(args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("receive", stderr)
	output := fs.StringP("output", "o", "demodulated.bin", "Output file for data")
	format := fs.String("format", formatWAV, "Input format: wav or raw (float64 little endian)")
	force := fs.Bool("force", false, "Overwrite an existing output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input, err := singleFile(fs)
	if err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	if err := utils.CheckOutput(*output, *force); err != nil {
		return err
	}

	layer, err := cfg.PhysicalLayer()
	if err != nil {
		return err
	}

	var samples []float64
	switch *format {
	case formatWAV:
		var rate int
		samples, rate, err = utils.ReadWAV(input)
		if err != nil {
			return err
		}
		if float64(rate) != cfg.SampleRate {
			return fmt.Errorf("sample rate mismatch: %s is %d Hz, configuration expects %g Hz", input, rate, cfg.SampleRate)
		}
	case formatRaw:
		samples, err = utils.ReadBinary[float64](input)
		if err != nil {
			return err
		}
	}

	data, err := layer.Decode(samples)
	if err != nil {
		return err
	}
	if err := utils.WriteBinary(*output, data); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "receive",
		"input":    input,
		"output":   *output,
		"samples":  len(samples),
		"bytes":    len(data),
	}).Info("Demodulated file")
	fmt.Fprintf(stdout, "wrote %d bytes to %s\n", len(data), *output)
	return nil
}

var errSelftest = errors.New("selftest failed")

func selftest(args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("selftest", stderr)
	size := fs.IntP("bytes", "n", 64, "Random payload size in bytes")
	sigma := fs.Float64("snr-sigma", 0, "Standard deviation of the added channel noise, 0 for a clean channel")
	seed := fs.Uint64("seed", 1, "Seed of the payload and noise generators")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: selftest takes no arguments", errUsage)
	}
	if *size < 0 || *sigma < 0 {
		return fmt.Errorf("%w: --bytes and --snr-sigma must not be negative", errUsage)
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	modems, err := cfg.Modems()
	if err != nil {
		return err
	}
	codec, err := cfg.Codec()
	if err != nil {
		return err
	}

	payload := make([]byte, *size)
	rand.New(rand.NewSource(*seed)).Read(payload)
	ch := channel.AWGN{Sigma: *sigma, Seed: *seed}

	results := make([]<-chan async.Result[[]byte], len(modems))
	for i, m := range modems {
		results[i] = async.Try(func() ([]byte, error) {
			layer, err := layers.NewPhysicalLayer(m, codec)
			if err != nil {
				return nil, err
			}
			return layer.Transfer(payload, ch)
		})
	}

	failed := 0
	for i, r := range async.Await(async.GatherN(results...)) {
		mode := cfg.Modulators[i].Mode
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(stdout, "%d %s: FAIL (%v)\n", i, mode, r.Err)
		case !bytes.Equal(r.Value, payload):
			failed++
			fmt.Fprintf(stdout, "%d %s: FAIL (payload mismatch)\n", i, mode)
		default:
			fmt.Fprintf(stdout, "%d %s: PASS\n", i, mode)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d modulators", errSelftest, failed, len(modems))
	}
	return nil
}
