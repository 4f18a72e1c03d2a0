package sm2

import (
	"crypto/hmac"
	"math/big"
	"sync"

	sha256simd "github.com/minio/sha256-simd"
)

// DRBG is a deterministic HMAC-SHA256 random bit generator in the RFC 6979 /
// SP 800-90A construction. The same seed always yields the same stream,
// which makes it useful for reproducible key generation and tests. Its output
// is only as secret as its seed.
//
// DRBG implements both io.Reader and RandomSource and is safe for concurrent
// use.
type DRBG struct {
	mu    sync.Mutex
	v     [32]byte
	k     [32]byte
	retry bool
}

// NewDRBG initializes a generator from seed.
func NewDRBG(seed []byte) *DRBG {
	d := &DRBG{}
	// V = 0x01 0x01 ... 0x01, K = 0x00 0x00 ... 0x00
	for i := range d.v {
		d.v[i] = 0x01
	}
	d.update(seed)
	return d
}

func drbgMAC(key []byte, parts ...[]byte) (out [32]byte) {
	m := hmac.New(sha256simd.New, key)
	for _, p := range parts {
		m.Write(p)
	}
	m.Sum(out[:0])
	return
}

// update mixes data into K and V:
// K = HMAC_K(V || 0x00 || data), V = HMAC_K(V), then the same with 0x01.
func (d *DRBG) update(data []byte) {
	d.k = drbgMAC(d.k[:], d.v[:], []byte{0x00}, data)
	d.v = drbgMAC(d.k[:], d.v[:])
	d.k = drbgMAC(d.k[:], d.v[:], []byte{0x01}, data)
	d.v = drbgMAC(d.k[:], d.v[:])
}

// Reseed mixes additional input into the generator state.
func (d *DRBG) Reseed(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.update(data)
	d.retry = false
}

// Read fills out with generator output. It never fails.
func (d *DRBG) Read(out []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.retry {
		d.k = drbgMAC(d.k[:], d.v[:], []byte{0x00})
		d.v = drbgMAC(d.k[:], d.v[:])
	}

	n := len(out)
	for len(out) > 0 {
		d.v = drbgMAC(d.k[:], d.v[:])
		out = out[copy(out, d.v[:]):]
	}
	d.retry = true
	return n, nil
}

// RandomInt implements RandomSource.
func (d *DRBG) RandomInt(bits int) (*big.Int, error) {
	return NewReaderSource(d).RandomInt(bits)
}

// Clear wipes the generator state.
func (d *DRBG) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.k[:])
	clear(d.v[:])
	d.retry = false
}
