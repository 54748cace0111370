// Package symbols packs byte streams into fixed-radix symbol sequences and back.
//
// A radix R codec carries log2(R) bits per symbol, MSB first. When the bit
// count of the input is not a multiple of log2(R) the last symbol is padded
// with zero bits. Radix 256 maps every byte to one symbol.
package symbols

import (
	"errors"
	"fmt"
	"maps"
	"math/bits"
	"slices"

	"vcmodem/pkg/bitstream"
)

var (
	ErrLength              = errors.New("invalid symbol stream length")
	ErrSymbolRange         = errors.New("illegal symbol")
	ErrUnsupportedAlphabet = errors.New("unsupported alphabet size")
)

type Codec struct {
	radix int
	width int // bits per symbol
}

var (
	Base2   = newCodec(2)
	Base4   = newCodec(4)
	Base8   = newCodec(8)
	Base16  = newCodec(16)
	Base32  = newCodec(32)
	Base64  = newCodec(64)
	Base256 = newCodec(256)
)

var codecs = map[int]Codec{
	2:   Base2,
	4:   Base4,
	8:   Base8,
	16:  Base16,
	32:  Base32,
	64:  Base64,
	256: Base256,
}

func newCodec(radix int) Codec {
	return Codec{radix: radix, width: bits.TrailingZeros(uint(radix))}
}

// ForAlphabet returns the codec whose radix equals the alphabet size n.
func ForAlphabet(n int) (Codec, error) {
	c, ok := codecs[n]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %d", ErrUnsupportedAlphabet, n)
	}
	return c, nil
}

// Radices lists the supported alphabet sizes in ascending order.
func Radices() []int {
	return slices.Sorted(maps.Keys(codecs))
}

func (c Codec) Radix() int {
	return c.radix
}

func (c Codec) BitsPerSymbol() int {
	return c.width
}

func (c Codec) String() string {
	return fmt.Sprintf("base%d", c.radix)
}

// EncodedLen returns the number of symbols Encode produces for n bytes.
func (c Codec) EncodedLen(n int) int {
	return (8*n + c.width - 1) / c.width
}

func (c Codec) Encode(data []byte) []int {
	if c.radix == 256 {
		out := make([]int, len(data))
		for i, b := range data {
			out[i] = int(b)
		}
		return out
	}

	out := make([]int, 0, c.EncodedLen(len(data)))
	symbol, count := 0, 0
	for bit := range bitstream.Bits(data) {
		symbol <<= 1
		if bit {
			symbol |= 1
		}
		count++
		if count == c.width {
			out = append(out, symbol)
			symbol, count = 0, 0
		}
	}
	if count != 0 {
		out = append(out, symbol<<(c.width-count))
	}
	return out
}

func (c Codec) Decode(syms []int) ([]byte, error) {
	n := len(syms) * c.width / 8
	if c.EncodedLen(n) != len(syms) {
		return nil, fmt.Errorf("%w: %d symbols cannot be decoded by %v", ErrLength, len(syms), c)
	}
	for i, s := range syms {
		if s < 0 || s >= c.radix {
			return nil, fmt.Errorf("%w: %d at index %d for %v", ErrSymbolRange, s, i, c)
		}
	}

	if c.radix == 256 {
		out := make([]byte, len(syms))
		for i, s := range syms {
			out[i] = byte(s)
		}
		return out, nil
	}

	out := make([]byte, n)
	stream := bitstream.New(out)
	pos := 0
	for _, s := range syms {
		for shift := c.width - 1; shift >= 0; shift-- {
			bit := s&(1<<shift) != 0
			if pos < stream.Len() {
				if err := stream.Set(pos, bit); err != nil {
					return nil, err
				}
			} else if bit {
				return nil, fmt.Errorf("%w: nonzero padding bit in final symbol", ErrLength)
			}
			pos++
		}
	}
	return out, nil
}
