// Package ecc holds the forward error correction stages applied to a payload
// before it is split into symbols.
package ecc

import (
	"errors"
	"fmt"
)

var ErrUnknownMode = errors.New("unknown ecc mode")

// Codec is a stateless byte stream transform. Decode never fails: damage it
// cannot repair simply produces wrong bytes.
type Codec interface {
	Encode(data []byte) []byte
	Decode(data []byte) []byte
}

const (
	ModeNone      = "none"
	ModeRaw       = "raw"
	ModeHamming74 = "hamming_7_4"
)

// Modes lists the mode names understood by ForMode.
var Modes = []string{ModeNone, ModeRaw, ModeHamming74}

func ForMode(mode string) (Codec, error) {
	switch mode {
	case ModeNone, ModeRaw:
		return Passthrough{}, nil
	case ModeHamming74:
		return Hamming74{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Passthrough copies its input.
type Passthrough struct{}

func (Passthrough) Encode(data []byte) []byte {
	return append([]byte{}, data...)
}

func (Passthrough) Decode(data []byte) []byte {
	return append([]byte{}, data...)
}
