package modem

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Modem turns symbol sequences into audio and back. Implementations are
// immutable after construction and safe for concurrent use.
type Modem interface {
	// Modulate renders symbols, each in [0, AlphabetSize()), as samples at
	// SampleRate() Hz framed by one silent guard symbol on either side.
	Modulate(symbols []int) ([]float64, error)
	// Demodulate recovers the symbols of a Modulate output. Intervals that
	// decode to silence come back as -1.
	Demodulate(samples []float64) ([]int, error)
	AlphabetSize() int
	SampleRate() float64
}

var (
	ErrConfig         = errors.New("invalid modulator configuration")
	ErrSymbol         = errors.New("symbol outside alphabet")
	ErrSignalTooShort = errors.New("signal too short to demodulate")
)

const (
	// SigmaMultT bounds how far a smoothed symbol edge reaches in time,
	// in units of the Gaussian sigma.
	SigmaMultT = 2.89
	// SigmaMultF sets the Gaussian roll-off in frequency.
	SigmaMultF = 3.72
)

// IntegrityWarning flags a legal but risky configuration, or a demodulated
// stream that looks corrupted.
type IntegrityWarning struct {
	Modulator string
	Reason    string
}

func (w *IntegrityWarning) Error() string {
	return fmt.Sprintf("%s integrity warning: %s", w.Modulator, w.Reason)
}

type Option func(*options)

type options struct {
	handler func(*IntegrityWarning)
	strict  bool
}

// WithWarningHandler delivers integrity warnings to h instead of the log.
func WithWarningHandler(h func(*IntegrityWarning)) Option {
	return func(o *options) {
		o.handler = h
	}
}

// Strict turns integrity warnings into errors. Construction fails on the
// first warning; Demodulate still returns the recovered symbols alongside
// the warning.
func Strict() Option {
	return func(o *options) {
		o.strict = true
	}
}

func logWarning(w *IntegrityWarning) {
	logrus.WithFields(logrus.Fields{
		"function":  "IntegrityWarning",
		"modulator": w.Modulator,
	}).Warn(w.Reason)
}

// reporter routes the warnings of one modulator.
type reporter struct {
	name string
	options
}

func newReporter(name string, opts []Option) reporter {
	r := reporter{name: name, options: options{handler: logWarning}}
	for _, opt := range opts {
		opt(&r.options)
	}
	return r
}

// warn raises a warning. It returns the warning as an error in strict mode
// and nil otherwise.
func (r reporter) warn(format string, args ...any) error {
	w := &IntegrityWarning{Modulator: r.name, Reason: fmt.Sprintf(format, args...)}
	if r.strict {
		return w
	}
	if r.handler != nil {
		r.handler(w)
	}
	return nil
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
