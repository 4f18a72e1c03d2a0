package sm2

import (
	"math/big"
)

// Window configuration for NAFw scalar multiplication
const (
	// NafWindowSize is the NAF window width w. Digits are the signed residue
	// of the low w+1 bits, so every nonzero digit is odd with |d| <= 2^w - 1
	// and is followed by at least w zero digits.
	NafWindowSize = 4

	// nafTableSize is the number of precomputed odd multiples:
	// P, 3P, 5P, ..., 15P
	nafTableSize = 1 << (NafWindowSize - 1)
)

var (
	nafModulus  = big.NewInt(1 << (NafWindowSize + 1))
	nafMask     = big.NewInt(1<<(NafWindowSize+1) - 1)
	nafHalfSize = 1 << NafWindowSize
)

// oddMultiples holds table[i] = (2i+1)·P.
type oddMultiples [nafTableSize]Point

// buildOddMultiples computes P, 3P, ..., 15P by repeatedly adding 2P.
func (c *Curve) buildOddMultiples(p Point) *oddMultiples {
	var t oddMultiples
	t[0] = p
	p2 := c.Double(p)
	for i := 1; i < nafTableSize; i++ {
		t[i] = c.Add(t[i-1], p2)
	}
	return &t
}

// generatorTable returns the odd multiples of G, building them on first use.
func (c *Curve) generatorTable() *oddMultiples {
	c.genOnce.Do(func() {
		c.genTable = c.buildOddMultiples(c.g)
		log().Debug("built generator table")
	})
	return c.genTable
}

// NAF returns the width-w non-adjacent form of k >= 0, least significant
// digit first. The digit sequence of zero is empty.
func NAF(k *big.Int) []int {
	r := new(big.Int).Set(k)
	digits := make([]int, 0, k.BitLen()+1)
	low := new(big.Int)
	for r.Sign() > 0 {
		d := 0
		if r.Bit(0) == 1 {
			d = int(low.And(r, nafMask).Int64())
			if d >= nafHalfSize {
				d -= int(nafModulus.Int64())
			}
			r.Sub(r, big.NewInt(int64(d)))
		}
		digits = append(digits, d)
		r.Rsh(r, 1)
	}
	return digits
}

// nafMult evaluates the NAF of k against a table of odd multiples of a point,
// scanning from the most significant digit.
func (c *Curve) nafMult(table *oddMultiples, k *big.Int) Point {
	digits := NAF(k)
	var q Point
	for i := len(digits) - 1; i >= 0; i-- {
		q = c.Double(q)
		switch d := digits[i]; {
		case d > 0:
			q = c.Add(q, table[d/2])
		case d < 0:
			q = c.Add(q, c.Negate(table[-d/2]))
		}
	}
	return q
}

// ScalarMult returns k·p using NAFw. The scalar is not reduced modulo the
// group order, so n·p yields the point at infinity for subgroup members.
// A negative k multiplies the negation of p.
func (c *Curve) ScalarMult(p Point, k *big.Int) Point {
	if p.IsInfinity() || k.Sign() == 0 {
		return Point{}
	}
	if k.Sign() < 0 {
		return c.ScalarMult(c.Negate(p), new(big.Int).Neg(k))
	}
	return c.nafMult(c.buildOddMultiples(p), k)
}

// ScalarBaseMult returns k·G using the cached generator table.
func (c *Curve) ScalarBaseMult(k *big.Int) Point {
	if k.Sign() == 0 {
		return Point{}
	}
	if k.Sign() < 0 {
		return c.Negate(c.ScalarBaseMult(new(big.Int).Neg(k)))
	}
	return c.nafMult(c.generatorTable(), k)
}

// ScalarMultBinary returns k·p with plain left-to-right double-and-add. It
// is the reference the NAFw path is checked against.
func (c *Curve) ScalarMultBinary(p Point, k *big.Int) Point {
	if k.Sign() < 0 {
		return c.ScalarMultBinary(c.Negate(p), new(big.Int).Neg(k))
	}
	var q Point
	for i := k.BitLen() - 1; i >= 0; i-- {
		q = c.Double(q)
		if k.Bit(i) == 1 {
			q = c.Add(q, p)
		}
	}
	return q
}

// CombinedMult returns s·G + t·p.
func (c *Curve) CombinedMult(s *big.Int, p Point, t *big.Int) Point {
	return c.Add(c.ScalarBaseMult(s), c.ScalarMult(p, t))
}
