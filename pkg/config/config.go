package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"vcmodem/pkg/ecc"
	"vcmodem/pkg/layers"
	"vcmodem/pkg/modem"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	ModeASK = "ask"
	ModePSK = "psk"
	ModeQAM = "qam"
	ModeFSK = "fsk"
)

type Config struct {
	Version    string
	SampleRate float64
	ECC        string
	Modulators []Modulator
}

// Modulator is one entry of the modulators list. Only the fields of its
// Mode are set. Phases are in turns.
type Modulator struct {
	Mode          string
	Baud          float64
	Carrier       float64
	Amplitude     float64
	Amplitudes    []float64
	Phases        []float64
	Constellation []complex128
	Frequencies   []float64

	Line int
}

// keys lists the fields every mode requires, and allows.
var keys = map[string][]string{
	ModeASK: {"mode", "baud", "carrier", "amplitudes"},
	ModePSK: {"mode", "baud", "carrier", "phases"},
	ModeQAM: {"mode", "baud", "carrier", "constellation"},
	ModeFSK: {"mode", "baud", "amplitude", "frequencies"},
}

func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}

	fields, err := mapping(doc.Content[0], "", []string{"version", "fs", "ecc", "modulators"})
	if err != nil {
		return nil, err
	}

	var c Config
	if c.Version, err = str(fields["version"], "version"); err != nil {
		return nil, err
	}
	if c.SampleRate, err = number(fields["fs"], "fs"); err != nil {
		return nil, err
	}
	if c.SampleRate <= 0 {
		return nil, invalid(fields["fs"], "fs", "sampling frequency must be positive")
	}
	if c.ECC, err = str(fields["ecc"], "ecc"); err != nil {
		return nil, err
	}
	if !slices.Contains(ecc.Modes, c.ECC) {
		return nil, invalid(fields["ecc"], "ecc", "expected one of %s", strings.Join(ecc.Modes, ", "))
	}

	list := fields["modulators"]
	if list.Kind != yaml.SequenceNode || len(list.Content) == 0 {
		return nil, invalid(list, "modulators", "must be a non-empty list of modulators")
	}
	for i, node := range list.Content {
		m, err := parseModulator(node, fmt.Sprintf("modulators[%d]", i))
		if err != nil {
			return nil, err
		}
		c.Modulators = append(c.Modulators, m)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "config.Parse",
		"version":    c.Version,
		"fs":         c.SampleRate,
		"ecc":        c.ECC,
		"modulators": len(c.Modulators),
	}).Debug("Parsed configuration")
	return &c, nil
}

func parseModulator(node *yaml.Node, path string) (Modulator, error) {
	m := Modulator{Line: node.Line}
	if node.Kind != yaml.MappingNode {
		return m, invalid(node, path, "expected a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "mode" {
			continue
		}
		mode, err := str(node.Content[i+1], path+".mode")
		if err != nil {
			return m, err
		}
		m.Mode = mode
	}
	allowed, ok := keys[m.Mode]
	if !ok {
		return m, invalid(node, path+".mode", "unknown modulator mode %q", m.Mode)
	}
	fields, err := mapping(node, path, allowed)
	if err != nil {
		return m, err
	}

	if m.Baud, err = number(fields["baud"], path+".baud"); err != nil {
		return m, err
	}
	switch m.Mode {
	case ModeASK, ModePSK, ModeQAM:
		if m.Carrier, err = number(fields["carrier"], path+".carrier"); err != nil {
			return m, err
		}
	case ModeFSK:
		if m.Amplitude, err = number(fields["amplitude"], path+".amplitude"); err != nil {
			return m, err
		}
	}

	switch m.Mode {
	case ModeASK:
		m.Amplitudes, err = alphabet(fields["amplitudes"], path+".amplitudes", parseFloat)
	case ModePSK:
		m.Phases, err = alphabet(fields["phases"], path+".phases", parseFloat)
	case ModeQAM:
		m.Constellation, err = alphabet(fields["constellation"], path+".constellation", ParseComplex)
	case ModeFSK:
		m.Frequencies, err = alphabet(fields["frequencies"], path+".frequencies", parseFloat)
	}
	return m, err
}

// mapping checks that node is a mapping holding exactly the keys in want.
func mapping(node *yaml.Node, path string, want []string) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, invalid(node, path, "expected a mapping")
	}
	fields := make(map[string]*yaml.Node, len(want))
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch {
		case !slices.Contains(want, key.Value):
			return nil, invalid(key, join(path, key.Value), "unexpected key")
		case fields[key.Value] != nil:
			return nil, invalid(key, join(path, key.Value), "duplicate key")
		}
		fields[key.Value] = value
	}
	for _, k := range want {
		if fields[k] == nil {
			return nil, invalid(node, join(path, k), "required key not found")
		}
	}
	return fields, nil
}

// alphabet reads a list of scalars, or one comma separated scalar. Entries
// must be unique.
func alphabet[T comparable](node *yaml.Node, path string, parse func(string) (T, error)) ([]T, error) {
	var items []string
	switch node.Kind {
	case yaml.SequenceNode:
		for i, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, invalid(item, fmt.Sprintf("%s[%d]", path, i), "expected a scalar")
			}
			items = append(items, item.Value)
		}
	case yaml.ScalarNode:
		items = splitList(node.Value)
	default:
		return nil, invalid(node, path, "expected a list or a comma separated scalar")
	}
	if len(items) == 0 {
		return nil, invalid(node, path, "empty alphabet")
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := parse(item)
		if err != nil {
			return nil, invalid(node, fmt.Sprintf("%s[%d]", path, i), "%v", err)
		}
		if slices.Contains(out, v) {
			return nil, invalid(node, fmt.Sprintf("%s[%d]", path, i), "duplicate entry %q", item)
		}
		out = append(out, v)
	}
	return out, nil
}

// splitList splits s at the commas outside parentheses.
func splitList(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if last := s[start:]; strings.TrimSpace(last) != "" || len(out) > 0 {
		out = append(out, last)
	}
	return out
}

func str(node *yaml.Node, path string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", invalid(node, path, "expected a scalar")
	}
	return node.Value, nil
}

func number(node *yaml.Node, path string) (float64, error) {
	s, err := str(node, path)
	if err != nil {
		return 0, err
	}
	v, err := parseFloat(s)
	if err != nil {
		return 0, invalid(node, path, "%v", err)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func invalid(node *yaml.Node, path, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s: %s", ErrInvalid, node.Line, path, fmt.Sprintf(format, args...))
}

// Modems constructs every configured modulator.
func (c *Config) Modems(opts ...modem.Option) ([]modem.Modem, error) {
	out := make([]modem.Modem, 0, len(c.Modulators))
	for i, m := range c.Modulators {
		md, err := m.build(c.SampleRate, opts)
		if err != nil {
			return nil, fmt.Errorf("modulators[%d] (line %d): %w", i, m.Line, err)
		}
		out = append(out, md)
	}
	return out, nil
}

func (m Modulator) build(fs float64, opts []modem.Option) (modem.Modem, error) {
	switch m.Mode {
	case ModeASK:
		return modem.ASKConfig{
			SampleRate: fs,
			Carrier:    m.Carrier,
			Amplitudes: m.Amplitudes,
			Baud:       m.Baud,
		}.New(opts...)
	case ModePSK:
		phases := make([]float64, len(m.Phases))
		for i, p := range m.Phases {
			phases[i] = 2 * math.Pi * p
		}
		return modem.PSKConfig{
			SampleRate: fs,
			Carrier:    m.Carrier,
			Amplitude:  1,
			Phases:     phases,
			Baud:       m.Baud,
		}.New(opts...)
	case ModeQAM:
		return modem.QAMConfig{
			SampleRate:    fs,
			Carrier:       m.Carrier,
			Constellation: m.Constellation,
			Baud:          m.Baud,
		}.New(opts...)
	case ModeFSK:
		return modem.FSKConfig{
			SampleRate:  fs,
			Amplitude:   m.Amplitude,
			Frequencies: m.Frequencies,
			Baud:        m.Baud,
		}.New(opts...)
	}
	return nil, fmt.Errorf("%w: unknown modulator mode %q", ErrInvalid, m.Mode)
}

// Codec resolves the ECC mode.
func (c *Config) Codec() (ecc.Codec, error) {
	return ecc.ForMode(c.ECC)
}

// PhysicalLayer builds the physical layer of the first configured
// modulator.
func (c *Config) PhysicalLayer(opts ...modem.Option) (*layers.PhysicalLayer, error) {
	if len(c.Modulators) == 0 {
		return nil, fmt.Errorf("%w: no modulators", ErrInvalid)
	}
	m, err := c.Modulators[0].build(c.SampleRate, opts)
	if err != nil {
		return nil, fmt.Errorf("modulators[0] (line %d): %w", c.Modulators[0].Line, err)
	}
	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}
	return layers.NewPhysicalLayer(m, codec)
}
