package sm2

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// RandomSource supplies uniformly random integers. Implementations must be
// cryptographically secure for key generation and signing, and safe for
// concurrent use if shared between signers.
type RandomSource interface {
	// RandomInt returns a uniform integer in [0, 2^bits).
	RandomInt(bits int) (*big.Int, error)
}

// ReaderSource draws integers from a byte stream such as crypto/rand.Reader.
type ReaderSource struct {
	r io.Reader
}

// NewReaderSource returns a RandomSource reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

var systemRandom = NewReaderSource(rand.Reader)

// SystemRandom returns the RandomSource backed by the operating system CSPRNG.
func SystemRandom() RandomSource { return systemRandom }

// RandomInt implements RandomSource.
func (s *ReaderSource) RandomInt(bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, errors.Wrapf(ErrDomain, "random bit length %d", bits)
	}
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, errors.Wrap(err, "reading random bytes")
	}
	// drop the excess high bits of the leading byte
	if extra := len(buf)*8 - bits; extra > 0 {
		buf[0] &= byte(0xff >> uint(extra))
	}
	v := new(big.Int).SetBytes(buf)
	clear(buf)
	return v, nil
}

// randomInRange draws max.BitLen()-bit integers from rnd until one lands in
// [lo, max], giving up after attempts draws.
func randomInRange(rnd RandomSource, lo, max *big.Int, attempts int) (*big.Int, error) {
	bits := max.BitLen()
	for i := 0; i < attempts; i++ {
		v, err := rnd.RandomInt(bits)
		if err != nil {
			return nil, err
		}
		if v.Cmp(lo) >= 0 && v.Cmp(max) <= 0 {
			return v, nil
		}
	}
	return nil, errors.Wrapf(ErrRetryExhausted, "no value in range after %d draws", attempts)
}
