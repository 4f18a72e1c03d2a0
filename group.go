package sm2

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// Point is an element of the curve group in affine coordinates. The zero value
// is the point at infinity. Points are immutable: operations return new
// points and accessors hand out copies.
type Point struct {
	x, y *big.Int
}

// Infinity returns the group identity.
func Infinity() Point { return Point{} }

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool { return p.x == nil }

// X returns a copy of the x coordinate, or nil for the point at infinity.
func (p Point) X() *big.Int {
	if p.x == nil {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the point at infinity.
func (p Point) Y() *big.Int {
	if p.y == nil {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal reports whether p and q are the same group element.
func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() && q.IsInfinity()
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// String formats the point as (x, y) in hex.
func (p Point) String() string {
	if p.IsInfinity() {
		return "(infinity)"
	}
	return fmt.Sprintf("(%s, %s)", p.x.Text(16), p.y.Text(16))
}

// NewPoint returns the affine point (x, y), failing with ErrDomain when the
// coordinates are not reduced or do not satisfy the curve equation.
func (c *Curve) NewPoint(x, y *big.Int) (Point, error) {
	if !c.onCurve(x, y) {
		return Point{}, errors.Wrap(ErrDomain, "point not on curve")
	}
	return Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}, nil
}

// IsOnCurve reports whether p belongs to the curve group. The point at
// infinity is a member.
func (c *Curve) IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return true
	}
	return c.onCurve(p.x, p.y)
}

// Negate returns -p = (x, p-y).
func (c *Curve) Negate(p Point) Point {
	if p.IsInfinity() {
		return p
	}
	return Point{x: new(big.Int).Set(p.x), y: ModNeg(p.y, c.p)}
}

// Add returns p + q.
func (c *Curve) Add(p, q Point) Point {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	if p.x.Cmp(q.x) == 0 {
		// inverse pair, including doubling a point of order two
		if ModAdd(p.y, q.y, c.p).Sign() == 0 {
			return Point{}
		}
		if p.y.Cmp(q.y) == 0 {
			return c.double(p)
		}
	}

	// lambda = (yq - yp) / (xq - xp)
	num := ModSub(q.y, p.y, c.p)
	den := mustInverse(ModSub(q.x, p.x, c.p), c.p)
	return c.chord(p, q, ModMul(num, den, c.p))
}

// Double returns 2p.
func (c *Curve) Double(p Point) Point {
	if p.IsInfinity() || p.y.Sign() == 0 {
		return Point{}
	}
	return c.double(p)
}

// Sub returns p - q.
func (c *Curve) Sub(p, q Point) Point {
	return c.Add(p, c.Negate(q))
}

func (c *Curve) double(p Point) Point {
	// lambda = (3x^2 + a) / 2y
	num := ModAdd(ModMul(bigThree, ModSqr(p.x, c.p), c.p), c.a, c.p)
	den := mustInverse(ModMul(bigTwo, p.y, c.p), c.p)
	return c.chord(p, p, ModMul(num, den, c.p))
}

// chord completes the addition once the slope is known:
// xr = lambda^2 - xp - xq, yr = lambda(xp - xr) - yp.
func (c *Curve) chord(p, q Point, lambda *big.Int) Point {
	xr := ModSub(ModSub(ModSqr(lambda, c.p), p.x, c.p), q.x, c.p)
	yr := ModSub(ModMul(lambda, ModSub(p.x, xr, c.p), c.p), p.y, c.p)
	return Point{x: xr, y: yr}
}
