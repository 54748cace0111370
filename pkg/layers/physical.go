package layers

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"vcmodem/pkg/channel"
	"vcmodem/pkg/ecc"
	"vcmodem/pkg/modem"
	"vcmodem/pkg/symbols"
)

var ErrUnsupportedAlphabet = symbols.ErrUnsupportedAlphabet

// PhysicalLayer turns bytes into audio samples and back:
// ECC, then the symbol codec matching the modem's alphabet, then the modem.
type PhysicalLayer struct {
	Modem modem.Modem
	ECC   ecc.Codec

	codec symbols.Codec
}

var _ Layer[[]float64, []byte] = (*PhysicalLayer)(nil)

func NewPhysicalLayer(m modem.Modem, c ecc.Codec) (*PhysicalLayer, error) {
	codec, err := symbols.ForAlphabet(m.AlphabetSize())
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = ecc.Passthrough{}
	}
	return &PhysicalLayer{Modem: m, ECC: c, codec: codec}, nil
}

// Codec returns the symbol codec picked for the modem.
func (p *PhysicalLayer) Codec() symbols.Codec {
	return p.codec
}

func (p *PhysicalLayer) Encode(data []byte) ([]float64, error) {
	coded := p.ECC.Encode(data)
	syms := p.codec.Encode(coded)
	samples, err := p.Modem.Modulate(syms)
	if err != nil {
		return nil, fmt.Errorf("modulate: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "PhysicalLayer.Encode",
		"bytes":    len(data),
		"coded":    len(coded),
		"symbols":  len(syms),
		"samples":  len(samples),
	}).Debug("Encoded frame")
	return samples, nil
}

// Decode recovers the bytes of an Encode output. Intervals the modem could
// not recover make the symbol decoding fail with symbols.ErrSymbolRange.
func (p *PhysicalLayer) Decode(samples []float64) ([]byte, error) {
	syms, err := p.Modem.Demodulate(samples)
	if err != nil {
		return nil, fmt.Errorf("demodulate: %w", err)
	}
	coded, err := p.codec.Decode(syms)
	if err != nil {
		return nil, fmt.Errorf("decode %s symbols: %w", p.codec, err)
	}
	data := p.ECC.Decode(coded)
	logrus.WithFields(logrus.Fields{
		"function": "PhysicalLayer.Decode",
		"samples":  len(samples),
		"symbols":  len(syms),
		"bytes":    len(data),
	}).Debug("Decoded frame")
	return data, nil
}

// Transfer encodes data, passes it through ch and decodes the result.
func (p *PhysicalLayer) Transfer(data []byte, ch channel.Channel) ([]byte, error) {
	samples, err := p.Encode(data)
	if err != nil {
		return nil, err
	}
	return p.Decode(ch.Transmit(samples))
}

// DownwardLoop encodes every frame read from in. Frames that fail are
// logged and dropped.
func (p *PhysicalLayer) DownwardLoop(in <-chan []byte, out chan<- []float64) {
	defer close(out)
	for data := range in {
		samples, err := p.Encode(data)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "PhysicalLayer.DownwardLoop",
			}).WithError(err).Error("Dropped frame")
			continue
		}
		out <- samples
	}
}

// UpwardLoop decodes every signal read from in. Signals that fail are
// logged and dropped.
func (p *PhysicalLayer) UpwardLoop(in <-chan []float64, out chan<- []byte) {
	defer close(out)
	for samples := range in {
		data, err := p.Decode(samples)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "PhysicalLayer.UpwardLoop",
			}).WithError(err).Error("Dropped frame")
			continue
		}
		out <- data
	}
}
