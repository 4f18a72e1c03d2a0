package sm2

// SM3 cryptographic hash, GB/T 32905-2016.

import (
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"
)

const (
	// SM3Size is the size of an SM3 digest in bytes.
	SM3Size = 32

	// SM3BlockSize is the SM3 message block size in bytes.
	SM3BlockSize = 64

	// sm3MaxBytes is the longest message whose bit length fits the 64-bit
	// length field.
	sm3MaxBytes = 1<<61 - 1

	sm3T0 = 0x79cc4519
	sm3T1 = 0x7a879d8a
)

var sm3IV = [8]uint32{
	0x7380166f, 0x4914b2b9, 0x172442d7, 0xda8a0600,
	0xa96f30bc, 0x163138aa, 0xe38dee4d, 0xb0fb0e4e,
}

// SM3 is a streaming SM3 computation. It implements hash.Hash.
type SM3 struct {
	h   [8]uint32
	x   [SM3BlockSize]byte
	nx  int
	len uint64
	err error
}

// NewSM3 returns an SM3 state initialized to the IV.
func NewSM3() *SM3 {
	d := new(SM3)
	d.Reset()
	return d
}

// SM3Hash returns the 32-byte SM3 digest of msg.
func SM3Hash(msg []byte) ([]byte, error) {
	d := NewSM3()
	if _, err := d.Write(msg); err != nil {
		return nil, err
	}
	sum, err := d.Checksum()
	if err != nil {
		return nil, err
	}
	return sum[:], nil
}

// Reset restores the IV and discards buffered input and any length error.
func (d *SM3) Reset() {
	d.h = sm3IV
	d.nx = 0
	d.len = 0
	d.err = nil
}

// Size returns SM3Size.
func (d *SM3) Size() int { return SM3Size }

// BlockSize returns SM3BlockSize.
func (d *SM3) BlockSize() int { return SM3BlockSize }

// Write absorbs p. A write that would push the message past the 64-bit bit
// length limit fails with ErrInputTooLarge, absorbs nothing, and poisons the
// state until Reset.
func (d *SM3) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if uint64(len(p)) > sm3MaxBytes-d.len {
		d.err = errors.Wrapf(ErrInputTooLarge, "message exceeds %d bytes", uint64(sm3MaxBytes))
		return 0, d.err
	}
	d.len += uint64(len(p))
	d.absorb(p)
	return len(p), nil
}

func (d *SM3) absorb(p []byte) {
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == SM3BlockSize {
			sm3Block(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= SM3BlockSize {
		n := len(p) &^ (SM3BlockSize - 1)
		sm3Block(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
}

// Sum appends the digest of the data written so far to in. The state is
// left unchanged. Sum panics if a previous Write failed; use Checksum to get
// the error instead.
func (d *SM3) Sum(in []byte) []byte {
	sum, err := d.Checksum()
	if err != nil {
		panic(err)
	}
	return append(in, sum[:]...)
}

// Checksum returns the digest of the data written so far without changing
// the state.
func (d *SM3) Checksum() ([SM3Size]byte, error) {
	if d.err != nil {
		return [SM3Size]byte{}, d.err
	}
	d0 := *d
	return d0.finish(), nil
}

// finish pads with 0x80, zeros up to 56 mod 64 and the 64-bit big-endian bit
// length, then serializes the state.
func (d *SM3) finish() [SM3Size]byte {
	var tmp [SM3BlockSize + 8]byte
	tmp[0] = 0x80
	var t uint64
	if d.len%SM3BlockSize < 56 {
		t = 56 - d.len%SM3BlockSize
	} else {
		t = SM3BlockSize + 56 - d.len%SM3BlockSize
	}
	binary.BigEndian.PutUint64(tmp[t:], d.len<<3)
	d.absorb(tmp[:t+8])
	if d.nx != 0 {
		panic("sm3: unaligned final block")
	}

	var digest [SM3Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint32(digest[4*i:], v)
	}
	return digest
}

func sm3P0(x uint32) uint32 {
	return x ^ bits.RotateLeft32(x, 9) ^ bits.RotateLeft32(x, 17)
}

func sm3P1(x uint32) uint32 {
	return x ^ bits.RotateLeft32(x, 15) ^ bits.RotateLeft32(x, 23)
}

// sm3Block runs the compression function over every whole block in p.
func sm3Block(h *[8]uint32, p []byte) {
	var w [68]uint32
	var w1 [64]uint32
	for len(p) >= SM3BlockSize {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[4*i:])
		}
		for j := 16; j < 68; j++ {
			w[j] = sm3P1(w[j-16]^w[j-9]^bits.RotateLeft32(w[j-3], 15)) ^
				bits.RotateLeft32(w[j-13], 7) ^ w[j-6]
		}
		for j := 0; j < 64; j++ {
			w1[j] = w[j] ^ w[j+4]
		}

		a, b, c, d := h[0], h[1], h[2], h[3]
		e, f, g, hh := h[4], h[5], h[6], h[7]
		for j := 0; j < 64; j++ {
			var t, ff, gg uint32
			if j < 16 {
				t = sm3T0
				ff = a ^ b ^ c
				gg = e ^ f ^ g
			} else {
				t = sm3T1
				ff = (a & b) | (a & c) | (b & c)
				gg = (e & f) | (^e & g)
			}
			a12 := bits.RotateLeft32(a, 12)
			ss1 := bits.RotateLeft32(a12+e+bits.RotateLeft32(t, j%32), 7)
			ss2 := ss1 ^ a12
			tt1 := ff + d + ss2 + w1[j]
			tt2 := gg + hh + ss1 + w[j]
			d = c
			c = bits.RotateLeft32(b, 9)
			b = a
			a = tt1
			hh = g
			g = bits.RotateLeft32(f, 19)
			f = e
			e = sm3P0(tt2)
		}

		h[0] ^= a
		h[1] ^= b
		h[2] ^= c
		h[3] ^= d
		h[4] ^= e
		h[5] ^= f
		h[6] ^= g
		h[7] ^= hh
		p = p[SM3BlockSize:]
	}
}
