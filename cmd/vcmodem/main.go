package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"vcmodem/pkg/config"
)

var errUsage = errors.New("usage error")

const usage = `vcmodem - software audio-frequency modem

Usage:
  vcmodem transmit FILE --config CFG [-o modulated.wav] [--format wav|raw] [--force]
  vcmodem receive FILE --config CFG [-o demodulated.bin] [--format wav|raw] [--force]
  vcmodem selftest --config CFG [--bytes N] [--snr-sigma S] [--seed N]

Run "vcmodem <command> --help" for the flags of a command.
`

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			logrus.WithError(err).Error("vcmodem failed")
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	switch args[0] {
	case "transmit":
		return transmit(args[1:], stdout, stderr)
	case "receive":
		return receive(args[1:], stdout, stderr)
	case "selftest":
		return selftest(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// common holds the flags shared by every command.
type common struct {
	config   string
	logLevel string
}

func newFlagSet(name string, stderr io.Writer) (*pflag.FlagSet, *common) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	c := &common{}
	fs.StringVarP(&c.config, "config", "c", "", "Modulation configuration file (YAML)")
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	return fs, c
}

// setup applies the log level and loads the configuration.
func (c *common) setup() (*config.Config, error) {
	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	logrus.SetLevel(level)

	if c.config == "" {
		return nil, fmt.Errorf("%w: a configuration file must be specified", errUsage)
	}
	info, err := os.Stat(c.config)
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: config file %s is a directory", errUsage, c.config)
	}
	return config.Load(c.config)
}

func singleFile(fs *pflag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s expects exactly one FILE argument, got %d", errUsage, fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}
