// Package bitstream gives bit-level access to byte buffers.
//
// Bits are addressed MSB first: bit 0 is the most significant bit of byte 0,
// bit 8 the most significant bit of byte 1 and so on.
package bitstream

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

var (
	ErrOutOfRange = errors.New("bit position is out of range")
	ErrReadOnly   = errors.New("bitstream is not writable")
)

// Stream is a view over a caller-owned byte buffer.
// Writes go straight into that buffer.
type Stream struct {
	buf      []byte
	readOnly bool
}

// New returns a writable stream backed by buf.
func New(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// ReadOnly returns a stream over buf that rejects writes with ErrReadOnly.
func ReadOnly(buf []byte) *Stream {
	return &Stream{buf: buf, readOnly: true}
}

// Len returns the number of bits in the stream.
func (s *Stream) Len() int {
	return 8 * len(s.buf)
}

func (s *Stream) Bytes() []byte {
	return s.buf
}

func (s *Stream) Writable() bool {
	return !s.readOnly
}

func (s *Stream) Bit(pos int) (bool, error) {
	return ReadBit(s.buf, pos)
}

func (s *Stream) Set(pos int, bit bool) error {
	if s.readOnly {
		return ErrReadOnly
	}
	return WriteBit(s.buf, pos, bit)
}

// All iterates over every bit in order. The sequence can be ranged over
// any number of times.
func (s *Stream) All() iter.Seq[bool] {
	return Bits(s.buf)
}

func (s *Stream) String() string {
	var sb strings.Builder
	for bit := range s.All() {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func ReadBit(buf []byte, pos int) (bool, error) {
	if err := checkRange(buf, pos); err != nil {
		return false, err
	}
	shift := 7 - pos%8
	return buf[pos/8]&(1<<shift) != 0, nil
}

func WriteBit(buf []byte, pos int, bit bool) error {
	if err := checkRange(buf, pos); err != nil {
		return err
	}
	mask := byte(1) << (7 - pos%8)
	if bit {
		buf[pos/8] |= mask
	} else {
		buf[pos/8] &^= mask
	}
	return nil
}

func Bits(buf []byte) iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for _, b := range buf {
			for shift := 7; shift >= 0; shift-- {
				if !yield(b&(1<<shift) != 0) {
					return
				}
			}
		}
	}
}

func checkRange(buf []byte, pos int) error {
	if pos < 0 || pos >= 8*len(buf) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, pos, 8*len(buf))
	}
	return nil
}
