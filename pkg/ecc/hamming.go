package ecc

import (
	"vcmodem/pkg/bitstream"
)

// Hamming74 protects every nibble with three parity bits. A codeword is laid
// out p1 p2 d1 p3 d2 d3 d4 so that the syndrome is the 1-based position of
// a single flipped bit.
type Hamming74 struct{}

// Encode emits ceil(7n/4) bytes. Codewords are packed back to back and may
// straddle byte boundaries; unused trailing bits stay zero.
func (Hamming74) Encode(data []byte) []byte {
	w := packer{buf: make([]byte, (7*len(data)+3)/4)}

	var nibble [4]bool
	n := 0
	for bit := range bitstream.Bits(data) {
		nibble[n] = bit
		if n++; n < len(nibble) {
			continue
		}
		n = 0
		word := codeword(nibble)
		w.put(word[:]...)
	}
	return w.buf
}

// Decode emits floor(4n/7) bytes. A trailing group shorter than seven bits
// is padding and ignored, as is a final nibble that would not fill a byte.
func (Hamming74) Decode(data []byte) []byte {
	w := packer{buf: make([]byte, 4*len(data)/7)}

	var word [7]bool
	n := 0
	for bit := range bitstream.Bits(data) {
		word[n] = bit
		if n++; n < len(word) {
			continue
		}
		n = 0
		if !w.fits(4) {
			break
		}
		nibble := correct(word)
		w.put(nibble[:]...)
	}
	return w.buf
}

// packer writes bits MSB first into a buffer the caller has sized.
type packer struct {
	buf []byte
	pos int
}

func (p *packer) fits(n int) bool {
	return p.pos+n <= 8*len(p.buf)
}

func (p *packer) put(bits ...bool) {
	for _, bit := range bits {
		if bit {
			p.buf[p.pos/8] |= 0x80 >> (p.pos % 8)
		}
		p.pos++
	}
}

func codeword(d [4]bool) [7]bool {
	p1 := d[0] != d[1] != d[3]
	p2 := d[0] != d[2] != d[3]
	p3 := d[1] != d[2] != d[3]
	return [7]bool{p1, p2, d[0], p3, d[1], d[2], d[3]}
}

// correct returns the data bits of w after fixing at most one flipped bit.
// Flipped parity bits need no repair since they are dropped anyway.
func correct(w [7]bool) [4]bool {
	d := [4]bool{w[2], w[4], w[5], w[6]}
	want := codeword(d)

	syndrome := 0
	if want[0] != w[0] {
		syndrome |= 1
	}
	if want[1] != w[1] {
		syndrome |= 2
	}
	if want[3] != w[3] {
		syndrome |= 4
	}

	switch syndrome {
	case 3:
		d[0] = !d[0]
	case 5:
		d[1] = !d[1]
	case 6:
		d[2] = !d[2]
	case 7:
		d[3] = !d[3]
	}
	return d
}
