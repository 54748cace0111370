package utils

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
)

const (
	WAVBitDepth  = 16
	wavFormatPCM = 1
)

// WriteWAV stores samples in [-1, 1] as a mono 16-bit PCM WAV file.
func WriteWAV(filename string, samples []float64, sampleRate int) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	enc := wav.NewEncoder(file, sampleRate, WAVBitDepth, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           FloatToPCM(samples, WAVBitDepth),
		SourceBitDepth: WAVBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "WriteWAV",
		"file":       filename,
		"samples":    len(samples),
		"sampleRate": sampleRate,
	}).Debug("Wrote WAV file")
	return file.Close()
}

// ReadWAV loads a PCM WAV file as samples in [-1, 1]. Only the first
// channel of a multichannel file is returned.
func ReadWAV(filename string) ([]float64, int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotWAV, filename)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode wav: %w", err)
	}

	channels := max(buf.Format.NumChannels, 1)
	mono := make([]int, len(buf.Data)/channels)
	for i := range mono {
		mono[i] = buf.Data[i*channels]
		if dec.BitDepth == 8 {
			// 8-bit WAV samples are unsigned
			mono[i] -= 128
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":   "ReadWAV",
		"file":       filename,
		"channels":   channels,
		"bitDepth":   dec.BitDepth,
		"sampleRate": dec.SampleRate,
	}).Debug("Read WAV file")
	return PCMToFloat(mono, int(dec.BitDepth)), int(dec.SampleRate), nil
}
