package bitstream

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAlternating(t *testing.T) {
	buf := []byte{0x55, 0x55}
	for i := 0; i < 8*len(buf); i++ {
		bit, err := ReadBit(buf, i)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, bit, "bit %d", i)
	}
}

func TestWriteAlternating(t *testing.T) {
	buf := make([]byte, 2)
	for i := 0; i < 8*len(buf); i++ {
		require.NoError(t, WriteBit(buf, i, i%2 == 1))
	}
	assert.Equal(t, []byte{0x55, 0x55}, buf)
}

func TestOneHot(t *testing.T) {
	onehot := []byte{1, 2, 4, 8, 16, 32, 64, 128}

	for i := range onehot {
		for j := 0; j < 8; j++ {
			bit, err := ReadBit(onehot, i*8+j)
			require.NoError(t, err)
			assert.Equal(t, i == 7-j, bit)
		}
	}

	buf := make([]byte, len(onehot))
	s := New(buf)
	for i := range buf {
		for j := 0; j < 8; j++ {
			require.NoError(t, s.Set(i*8+j, i == 7-j))
		}
	}
	assert.Equal(t, onehot, buf)
}

func TestSetAndClear(t *testing.T) {
	tests := []struct {
		name     string
		initial  byte
		setBits  []int
		clrBits  []int
		expected byte
	}{
		{"Set and Clear bits", 0x00, []int{1, 3, 5}, []int{3}, 0b01000100},
		{"Set bits only", 0x00, []int{0, 2, 4}, nil, 0b10101000},
		{"Clear bits only", 0xff, nil, []int{0, 1, 2}, 0b00011111},
		{"No operations", 0x0f, nil, nil, 0x0f},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New([]byte{tt.initial})
			for _, pos := range tt.setBits {
				require.NoError(t, s.Set(pos, true))
			}
			for _, pos := range tt.clrBits {
				require.NoError(t, s.Set(pos, false))
			}
			assert.Equal(t, tt.expected, s.Bytes()[0])
		})
	}
}

func TestBitsIterator(t *testing.T) {
	buf := []byte{0x00, 0xff, 0x55}
	expected := []bool{
		false, false, false, false, false, false, false, false,
		true, true, true, true, true, true, true, true,
		false, true, false, true, false, true, false, true,
	}

	assert.Equal(t, expected, slices.Collect(Bits(buf)))

	// restartable
	s := ReadOnly(buf)
	assert.Equal(t, expected, slices.Collect(s.All()))
	assert.Equal(t, expected, slices.Collect(s.All()))

	// early exit
	count := 0
	for range Bits(buf) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestRange(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		pos  int
	}{
		{"empty", []byte{}, 1},
		{"negative", []byte("anything"), -1},
		{"one past end", []byte("anything"), 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBit(tt.buf, tt.pos)
			assert.ErrorIs(t, err, ErrOutOfRange)

			err = WriteBit(tt.buf, tt.pos, true)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}

	_, err := ReadBit([]byte("anything"), 63)
	assert.NoError(t, err)
}

func TestReadOnly(t *testing.T) {
	buf := []byte("Not mutable")
	s := ReadOnly(buf)

	err := s.Set(0, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadOnly))
	assert.False(t, s.Writable())
	assert.Equal(t, []byte("Not mutable"), buf)

	bit, err := s.Bit(1)
	require.NoError(t, err)
	assert.True(t, bit) // 'N' = 0b01001110
}

func TestString(t *testing.T) {
	s := ReadOnly([]byte{0xa5})
	assert.Equal(t, "10100101", s.String())
	assert.Equal(t, 8, s.Len())
}
