package sm2

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// keyGenMaxAttempts bounds both the scalar draw and the full
// draw-and-validate cycle of GenerateKeyPair.
const keyGenMaxAttempts = 64

// KeyPair is an SM2 private scalar d in [1, n-2] with its public point d·G.
type KeyPair struct {
	curve *Curve
	d     *big.Int
	pub   Point
}

// GenerateKeyPair draws a fresh key pair on c from rnd and validates the
// public key, repeating the whole cycle if validation fails.
func GenerateKeyPair(c *Curve, rnd RandomSource) (*KeyPair, error) {
	if rnd == nil {
		rnd = SystemRandom()
	}
	maxD := new(big.Int).Sub(c.n, bigTwo)
	for attempt := 1; attempt <= keyGenMaxAttempts; attempt++ {
		d, err := randomInRange(rnd, bigOne, maxD, keyGenMaxAttempts)
		if err != nil {
			return nil, errors.Wrap(err, "drawing private scalar")
		}
		pub := c.ScalarBaseMult(d)
		if err := ValidatePublicKey(c, pub); err != nil {
			log().Debug("rejected generated key", zap.Int("attempt", attempt), zap.Error(err))
			d.SetInt64(0)
			continue
		}
		return &KeyPair{curve: c, d: d, pub: pub}, nil
	}
	return nil, errors.Wrapf(ErrRetryExhausted, "no valid key pair after %d attempts", keyGenMaxAttempts)
}

// NewKeyPair derives the key pair for a known private scalar d. It fails with
// ErrOutOfRange unless 1 <= d <= n-2.
func NewKeyPair(c *Curve, d *big.Int) (*KeyPair, error) {
	maxD := new(big.Int).Sub(c.n, bigTwo)
	if d == nil || d.Sign() <= 0 || d.Cmp(maxD) > 0 {
		return nil, errors.Wrap(ErrOutOfRange, "private scalar must be in [1, n-2]")
	}
	pub := c.ScalarBaseMult(d)
	if err := ValidatePublicKey(c, pub); err != nil {
		return nil, err
	}
	return &KeyPair{curve: c, d: new(big.Int).Set(d), pub: pub}, nil
}

// ValidatePublicKey checks that p is not the point at infinity, has reduced
// coordinates, satisfies the curve equation and lies in the subgroup of
// order n.
func ValidatePublicKey(c *Curve, p Point) error {
	switch {
	case p.IsInfinity():
		return errors.Wrap(ErrInvalidPublicKey, "point at infinity")
	case !inField(p.x, c.p) || !inField(p.y, c.p):
		return errors.Wrap(ErrInvalidPublicKey, "coordinate not reduced modulo p")
	case !c.onCurve(p.x, p.y):
		return errors.Wrap(ErrInvalidPublicKey, "point not on curve")
	case !c.ScalarMult(p, c.n).IsInfinity():
		return errors.Wrap(ErrInvalidPublicKey, "point outside the order-n subgroup")
	}
	return nil
}

// Curve returns the curve the key pair belongs to.
func (kp *KeyPair) Curve() *Curve { return kp.curve }

// Private returns a copy of the private scalar, or nil after Clear.
func (kp *KeyPair) Private() *big.Int {
	if kp.d == nil {
		return nil
	}
	return new(big.Int).Set(kp.d)
}

// Public returns the public point.
func (kp *KeyPair) Public() Point { return kp.pub }

// Clear zeroes the private scalar. The key pair must not be used afterwards.
func (kp *KeyPair) Clear() {
	if kp.d != nil {
		kp.d.SetInt64(0)
		kp.d = nil
	}
	kp.pub = Point{}
}
