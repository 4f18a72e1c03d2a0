package sm2

// Modular arithmetic over big integers. Every helper allocates its result and
// reduces it into [0, m), so no intermediate value outlives an operation in
// unreduced form and inputs are never modified.

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	bigZero  = big.NewInt(0)
	bigOne   = big.NewInt(1)
	bigTwo   = big.NewInt(2)
	bigThree = big.NewInt(3)
	bigFour  = big.NewInt(4)
)

// ModReduce returns x mod m in [0, m).
func ModReduce(x, m *big.Int) *big.Int {
	return new(big.Int).Mod(x, m)
}

// ModAdd returns a + b mod m.
func ModAdd(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, m)
}

// ModSub returns a - b mod m.
func ModSub(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, m)
}

// ModMul returns a * b mod m.
func ModMul(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, m)
}

// ModSqr returns a^2 mod m.
func ModSqr(a, m *big.Int) *big.Int {
	return ModMul(a, a, m)
}

// ModNeg returns -a mod m.
func ModNeg(a, m *big.Int) *big.Int {
	r := new(big.Int).Neg(a)
	return r.Mod(r, m)
}

// ModExp returns base^e mod m for e >= 0.
func ModExp(base, e, m *big.Int) *big.Int {
	b := new(big.Int).Mod(base, m)
	return b.Exp(b, e, m)
}

// ModInverse returns x^-1 mod m. It fails with ErrDomain when x ≡ 0 mod m or
// when x shares a factor with m.
func ModInverse(x, m *big.Int) (*big.Int, error) {
	xr := new(big.Int).Mod(x, m)
	if xr.Sign() == 0 {
		return nil, errors.Wrap(ErrDomain, "inverse of zero")
	}
	if xr.ModInverse(xr, m) == nil {
		return nil, errors.Wrapf(ErrDomain, "%s is not invertible modulo %s", x.Text(16), m.Text(16))
	}
	return xr, nil
}

// mustInverse is ModInverse for call sites where a zero denominator would
// mean a broken group invariant rather than bad input.
func mustInverse(x, m *big.Int) *big.Int {
	r, err := ModInverse(x, m)
	if err != nil {
		panic(err)
	}
	return r
}

// ModHalf returns x/2 mod m for odd m.
func ModHalf(x, m *big.Int) *big.Int {
	r := new(big.Int).Mod(x, m)
	if r.Bit(0) == 1 {
		r.Add(r, m)
	}
	return r.Rsh(r, 1)
}

// inField reports whether 0 <= x < m.
func inField(x, m *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(m) < 0
}
