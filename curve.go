package sm2

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"
)

// CurveParams holds the constants of a short Weierstrass curve
// y^2 = x^3 + a*x + b over GF(p) with base point (Gx, Gy) of prime order N.
type CurveParams struct {
	Name   string
	P      *big.Int
	A      *big.Int
	B      *big.Int
	Gx, Gy *big.Int
	N      *big.Int
}

// Curve is a validated, immutable set of curve parameters together with the
// lazily built precomputation for generator multiplication. Curves are shared
// by pointer and are safe for concurrent use.
type Curve struct {
	name    string
	p, a, b *big.Int
	n       *big.Int
	g       Point

	genOnce  sync.Once
	genTable *oddMultiples
}

// The sample curve of GB/T 32918 (256-bit prime field, p ≡ 3 mod 4).
const (
	sampleName = "sm2-sample-256"
	sampleP    = "8542D69E4C044F18E8B92435BF6FF7DE457283915C45517D722EDB8B08F1DFC3"
	sampleA    = "787968B4FA32C3FD2417842E73BBFEFF2F3C848B6831D7E0EC65228B3937E498"
	sampleB    = "63E4C6D3B23B0C849CF84241484BFE48F61D59A5B16BA06E6E12D1DA27C5249A"
	sampleGx   = "421DEBD61B62EAB6746434EBC3CC315E32220B3BADD50BDC4C4E6C147FEDD43D"
	sampleGy   = "0680512BCBB42C07D47349D2153B70C4E5D7FDFCBFA36EA1A85841B9E46E09A2"
	sampleN    = "8542D69E4C044F18E8B92435BF6FF7DD297720630485628D5AE74EE7C32E79B7"
)

var defaultCurve *Curve

func init() {
	c, err := NewCurve(CurveParams{
		Name: sampleName,
		P:    mustHex(sampleP),
		A:    mustHex(sampleA),
		B:    mustHex(sampleB),
		Gx:   mustHex(sampleGx),
		Gy:   mustHex(sampleGy),
		N:    mustHex(sampleN),
	})
	if err != nil {
		panic(err)
	}
	defaultCurve = c
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("sm2: invalid hex constant " + s)
	}
	return v
}

// DefaultCurve returns the process-wide SM2 curve used by key generation,
// signing and verification.
func DefaultCurve() *Curve {
	return defaultCurve
}

// NewCurve validates params and returns the curve they define. It fails with
// ErrDomain unless p is prime, 4a^3 + 27b^2 ≠ 0 mod p, all constants are
// reduced, G lies on the curve and N·G is the point at infinity.
func NewCurve(params CurveParams) (*Curve, error) {
	if params.P == nil || params.A == nil || params.B == nil ||
		params.Gx == nil || params.Gy == nil || params.N == nil {
		return nil, errors.Wrap(ErrDomain, "missing curve parameter")
	}
	p := new(big.Int).Set(params.P)
	if p.Cmp(bigThree) <= 0 || !p.ProbablyPrime(20) {
		return nil, errors.Wrap(ErrDomain, "modulus is not an odd prime")
	}
	for _, v := range []*big.Int{params.A, params.B, params.Gx, params.Gy} {
		if !inField(v, p) {
			return nil, errors.Wrap(ErrDomain, "curve constant not reduced modulo p")
		}
	}
	if params.N.Cmp(bigOne) <= 0 {
		return nil, errors.Wrap(ErrDomain, "subgroup order must exceed one")
	}

	// 4a^3 + 27b^2
	disc := ModMul(bigFour, ModMul(ModSqr(params.A, p), params.A, p), p)
	disc = ModAdd(disc, ModMul(big.NewInt(27), ModSqr(params.B, p), p), p)
	if disc.Sign() == 0 {
		return nil, errors.Wrap(ErrDomain, "singular curve")
	}

	c := &Curve{
		name: params.Name,
		p:    p,
		a:    new(big.Int).Set(params.A),
		b:    new(big.Int).Set(params.B),
		n:    new(big.Int).Set(params.N),
	}

	g := Point{x: new(big.Int).Set(params.Gx), y: new(big.Int).Set(params.Gy)}
	if !c.onCurve(g.x, g.y) {
		return nil, errors.Wrap(ErrDomain, "base point not on curve")
	}
	c.g = g
	if !c.ScalarMult(g, c.n).IsInfinity() {
		return nil, errors.Wrap(ErrDomain, "base point order does not divide n")
	}
	return c, nil
}

// Name returns the curve name.
func (c *Curve) Name() string { return c.name }

// Params returns a copy of the curve constants.
func (c *Curve) Params() CurveParams {
	return CurveParams{
		Name: c.name,
		P:    new(big.Int).Set(c.p),
		A:    new(big.Int).Set(c.a),
		B:    new(big.Int).Set(c.b),
		Gx:   c.g.X(),
		Gy:   c.g.Y(),
		N:    new(big.Int).Set(c.n),
	}
}

// P returns a copy of the field modulus.
func (c *Curve) P() *big.Int { return new(big.Int).Set(c.p) }

// N returns a copy of the order of the base point.
func (c *Curve) N() *big.Int { return new(big.Int).Set(c.n) }

// Generator returns the base point G.
func (c *Curve) Generator() Point { return c.g }

// BitSize returns the bit length of the field modulus.
func (c *Curve) BitSize() int { return c.p.BitLen() }

// ByteSize returns the fixed coordinate width in bytes.
func (c *Curve) ByteSize() int { return (c.p.BitLen() + 7) / 8 }

// rhs returns x^3 + a*x + b mod p.
func (c *Curve) rhs(x *big.Int) *big.Int {
	x3 := ModMul(ModSqr(x, c.p), x, c.p)
	return ModAdd(ModAdd(x3, ModMul(c.a, x, c.p), c.p), c.b, c.p)
}

func (c *Curve) onCurve(x, y *big.Int) bool {
	if !inField(x, c.p) || !inField(y, c.p) {
		return false
	}
	return ModSqr(y, c.p).Cmp(c.rhs(x)) == 0
}
