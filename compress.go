package sm2

import (
	"math/big"

	"github.com/pkg/errors"
)

// lucasMaxAttempts caps the random X draws of the p ≡ 1 mod 8 square root.
// Each draw settles a quadratic residue with probability about 1/2 and a
// non-residue on the first draw, so the cap is reached with probability
// around 2^-128.
const lucasMaxAttempts = 128

// Point encoding prefixes
const (
	pointInfinity     = 0x00
	pointCompressed   = 0x02
	pointUncompressed = 0x04
)

// ModSqrt returns a square root of alpha modulo the odd prime p, choosing the
// algorithm by the residue class of p: exponentiation for p ≡ 3 mod 4,
// Atkin's method for p ≡ 5 mod 8 and a randomized Lucas sequence search for
// p ≡ 1 mod 8, which draws from rnd. It fails with ErrNoSquareRoot when alpha
// is a quadratic non-residue.
func ModSqrt(alpha, p *big.Int, rnd RandomSource) (*big.Int, error) {
	if p.Bit(0) == 0 || p.Cmp(bigThree) < 0 {
		return nil, errors.Wrap(ErrDomain, "modulus must be an odd prime")
	}
	g := ModReduce(alpha, p)
	if g.Sign() == 0 {
		return g, nil
	}

	switch new(big.Int).And(p, big.NewInt(7)).Int64() {
	case 3, 7:
		// y = g^((p+1)/4)
		e := new(big.Int).Rsh(new(big.Int).Add(p, bigOne), 2)
		y := ModExp(g, e, p)
		if ModSqr(y, p).Cmp(g) != 0 {
			return nil, errors.Wrap(ErrNoSquareRoot, "quadratic non-residue")
		}
		return y, nil

	case 5:
		u := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(5)), 3)
		e := new(big.Int).Lsh(u, 1)
		e.Add(e, bigOne)
		z := ModExp(g, e, p)
		switch {
		case z.Cmp(bigOne) == 0:
			return ModExp(g, new(big.Int).Add(u, bigOne), p), nil
		case z.Cmp(new(big.Int).Sub(p, bigOne)) == 0:
			// y = 2g(4g)^u
			y := ModExp(ModMul(bigFour, g, p), u, p)
			return ModMul(ModMul(bigTwo, g, p), y, p), nil
		}
		return nil, errors.Wrap(ErrNoSquareRoot, "quadratic non-residue")

	default:
		return lucasSqrt(g, p, rnd)
	}
}

// lucasSqrt handles p ≡ 1 mod 8. For a random X it evaluates the Lucas
// sequences with P = X, Q = g at k = (p+1)/2. A root is found when V^2 ≡ 4g;
// U ≢ ±1 proves g is a non-residue; otherwise X was unlucky and is redrawn.
func lucasSqrt(g, p *big.Int, rnd RandomSource) (*big.Int, error) {
	if rnd == nil {
		rnd = SystemRandom()
	}
	u := new(big.Int).Rsh(new(big.Int).Sub(p, bigOne), 3)
	k := new(big.Int).Lsh(u, 2)
	k.Add(k, bigOne)

	fourG := ModMul(bigFour, g, p)
	pMinusOne := new(big.Int).Sub(p, bigOne)
	for attempt := 1; attempt <= lucasMaxAttempts; attempt++ {
		x, err := rnd.RandomInt(p.BitLen())
		if err != nil {
			return nil, err
		}
		x.Mod(x, p)

		U, V := lucasSequence(x, g, k, p)
		if ModSqr(V, p).Cmp(fourG) == 0 {
			return ModHalf(V, p), nil
		}
		if U.Cmp(bigOne) != 0 && U.Cmp(pMinusOne) != 0 {
			return nil, errors.Wrap(ErrNoSquareRoot, "quadratic non-residue")
		}
		log().Debug("lucas square root retry")
	}
	return nil, errors.Wrapf(ErrRetryExhausted, "square root undecided after %d attempts", lucasMaxAttempts)
}

// lucasSequence returns (U_k, V_k) mod p for the Lucas sequences with
// parameters (x, y), using the binary ladder
//
//	U_2k = U_k V_k,           V_2k = (V_k^2 + D U_k^2) / 2
//	U_k+1 = (x U_k + V_k)/2,  V_k+1 = (x V_k + D U_k) / 2
//
// where D = x^2 - 4y.
func lucasSequence(x, y, k, p *big.Int) (U, V *big.Int) {
	delta := ModSub(ModSqr(x, p), ModMul(bigFour, y, p), p)
	U = big.NewInt(1)
	V = ModReduce(x, p)
	for i := k.BitLen() - 2; i >= 0; i-- {
		U, V = ModMul(U, V, p), ModHalf(ModAdd(ModSqr(V, p), ModMul(delta, ModSqr(U, p), p), p), p)
		if k.Bit(i) == 1 {
			U, V = ModHalf(ModAdd(ModMul(x, U, p), V, p), p),
				ModHalf(ModAdd(ModMul(x, V, p), ModMul(delta, U, p), p), p)
		}
	}
	return U, V
}

// Decompress returns the y coordinate of the curve point with abscissa x
// whose least significant bit equals yBit.
func (c *Curve) Decompress(x *big.Int, yBit uint) (*big.Int, error) {
	if !inField(x, c.p) {
		return nil, errors.Wrap(ErrDomain, "x coordinate not reduced modulo p")
	}
	if yBit > 1 {
		return nil, errors.Wrapf(ErrDomain, "parity bit %d", yBit)
	}
	beta, err := ModSqrt(c.rhs(x), c.p, SystemRandom())
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing x=%s", x.Text(16))
	}
	if beta.Bit(0) == yBit {
		return beta, nil
	}
	if beta.Sign() == 0 {
		return nil, errors.Wrap(ErrNoSquareRoot, "only root is zero, parity 1 requested")
	}
	return new(big.Int).Sub(c.p, beta), nil
}

// DecompressPoint returns the point (x, y) with y selected by yBit.
func (c *Curve) DecompressPoint(x *big.Int, yBit uint) (Point, error) {
	y, err := c.Decompress(x, yBit)
	if err != nil {
		return Point{}, err
	}
	return Point{x: new(big.Int).Set(x), y: y}, nil
}

func (c *Curve) fieldBytes(v *big.Int) []byte {
	return v.FillBytes(make([]byte, c.ByteSize()))
}

// MarshalCompressed encodes p as 0x02|parity followed by the fixed-width x
// coordinate. The point at infinity encodes as a single zero byte.
func (c *Curve) MarshalCompressed(p Point) []byte {
	if p.IsInfinity() {
		return []byte{pointInfinity}
	}
	return append([]byte{pointCompressed | byte(p.y.Bit(0))}, c.fieldBytes(p.x)...)
}

// Marshal encodes p as 0x04 followed by the fixed-width x and y coordinates.
// The point at infinity encodes as a single zero byte.
func (c *Curve) Marshal(p Point) []byte {
	if p.IsInfinity() {
		return []byte{pointInfinity}
	}
	out := make([]byte, 1, 1+2*c.ByteSize())
	out[0] = pointUncompressed
	out = append(out, c.fieldBytes(p.x)...)
	return append(out, c.fieldBytes(p.y)...)
}

// Unmarshal decodes a point produced by Marshal or MarshalCompressed and
// checks that it lies on the curve.
func (c *Curve) Unmarshal(data []byte) (Point, error) {
	size := c.ByteSize()
	switch {
	case len(data) == 1 && data[0] == pointInfinity:
		return Point{}, nil
	case len(data) == 1+size && (data[0] == pointCompressed || data[0] == pointCompressed|1):
		x := BytesToInt(data[1:])
		if !inField(x, c.p) {
			return Point{}, errors.Wrap(ErrInvalidEncoding, "x coordinate out of range")
		}
		return c.DecompressPoint(x, uint(data[0]&1))
	case len(data) == 1+2*size && data[0] == pointUncompressed:
		p, err := c.NewPoint(BytesToInt(data[1:1+size]), BytesToInt(data[1+size:]))
		if err != nil {
			return Point{}, errors.Wrap(ErrInvalidEncoding, err.Error())
		}
		return p, nil
	}
	return Point{}, errors.Wrapf(ErrInvalidEncoding, "%d byte point with prefix %#x", len(data), firstByte(data))
}

func firstByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
