package sm2

import (
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"
)

// IntToBytes encodes x >= 0 as exactly k big-endian bytes. It fails with
// ErrValueTooLarge when x >= 2^(8k) and with ErrDomain for negative x.
func IntToBytes(x *big.Int, k int) ([]byte, error) {
	if x.Sign() < 0 {
		return nil, errors.Wrap(ErrDomain, "negative integer has no unsigned encoding")
	}
	if k < 0 || x.BitLen() > 8*k {
		return nil, errors.Wrapf(ErrValueTooLarge, "%d-bit value does not fit %d bytes", x.BitLen(), k)
	}
	return x.FillBytes(make([]byte, k)), nil
}

// BytesToInt decodes big-endian unsigned bytes. Leading zero bytes are
// allowed and an empty slice decodes to zero.
func BytesToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// IntBytes returns the minimal big-endian unsigned encoding of x >= 0. Zero
// encodes as a single zero byte.
func IntBytes(x *big.Int) []byte {
	if x.Sign() == 0 {
		return []byte{0}
	}
	return new(big.Int).Abs(x).Bytes()
}

// ConcatBytes joins byte slices into a fresh slice.
func ConcatBytes(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// HexEncode returns the lowercase hex encoding of b.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}
