package sm2

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// signMaxAttempts bounds both the ephemeral scalar draw and the number of
// rejected (r, s) candidates per signature.
const signMaxAttempts = 64

// Signer signs messages for one identity and key pair. The identity digest
// ZA and (1+d)^-1 are computed once at construction.
type Signer struct {
	kp   *KeyPair
	za   []byte
	dInv *big.Int
	rnd  RandomSource
}

// NewSigner computes ZA for identity and the key pair's public key and
// returns a Signer drawing ephemeral scalars from rnd (SystemRandom if nil).
func NewSigner(identity []byte, kp *KeyPair, rnd RandomSource) (*Signer, error) {
	if kp == nil || kp.d == nil {
		return nil, errors.Wrap(ErrDomain, "signer needs a private key")
	}
	za, err := ComputeZA(kp.curve, identity, kp.pub)
	if err != nil {
		return nil, errors.Wrap(err, "computing identity digest")
	}
	return NewSignerWithZA(za, kp, rnd)
}

// NewSignerWithZA returns a Signer using a precomputed identity digest.
func NewSignerWithZA(za []byte, kp *KeyPair, rnd RandomSource) (*Signer, error) {
	if kp == nil || kp.d == nil {
		return nil, errors.Wrap(ErrDomain, "signer needs a private key")
	}
	if len(za) == 0 {
		return nil, errors.Wrap(ErrDomain, "empty identity digest")
	}
	if rnd == nil {
		rnd = SystemRandom()
	}
	dInv, err := ModInverse(new(big.Int).Add(kp.d, bigOne), kp.curve.n)
	if err != nil {
		return nil, errors.Wrap(err, "inverting 1+d")
	}
	return &Signer{
		kp:   kp,
		za:   append([]byte(nil), za...),
		dInv: dInv,
		rnd:  rnd,
	}, nil
}

// ZA returns a copy of the cached identity digest.
func (s *Signer) ZA() []byte { return append([]byte(nil), s.za...) }

// PublicKey returns the signer's public point.
func (s *Signer) PublicKey() Point { return s.kp.pub }

// Sign returns a fresh signature of msg.
func (s *Signer) Sign(msg []byte) (*Signature, error) {
	if s.kp.d == nil {
		return nil, errors.Wrap(ErrDomain, "key pair has been cleared")
	}
	e, err := messageDigest(s.za, msg)
	if err != nil {
		return nil, err
	}
	return signDigest(s.kp.curve, s.kp.d, s.dInv, e, s.rnd)
}

// Verify reports whether sig is a valid signature of msg under the signer's
// own public key.
func (s *Signer) Verify(msg []byte, sig *Signature) bool {
	return VerifyWithZA(s.kp.curve, s.kp.pub, s.za, msg, sig)
}

// SignWithZA signs msg with kp for the identity digest za.
func SignWithZA(kp *KeyPair, za, msg []byte, rnd RandomSource) (*Signature, error) {
	s, err := NewSignerWithZA(za, kp, rnd)
	if err != nil {
		return nil, err
	}
	return s.Sign(msg)
}

// messageDigest returns e = SM3(ZA || M) as an integer.
func messageDigest(za, msg []byte) (*big.Int, error) {
	h, err := SM3Hash(ConcatBytes(za, msg))
	if err != nil {
		return nil, errors.Wrap(err, "hashing message")
	}
	return BytesToInt(h), nil
}

// signDigest runs the SM2 signing loop. Every candidate uses a freshly drawn
// ephemeral k, which is zeroed once consumed.
func signDigest(c *Curve, d, dInv, e *big.Int, rnd RandomSource) (*Signature, error) {
	n := c.n
	nMinusOne := new(big.Int).Sub(n, bigOne)
	for attempt := 1; attempt <= signMaxAttempts; attempt++ {
		k, err := randomInRange(rnd, bigOne, nMinusOne, signMaxAttempts)
		if err != nil {
			return nil, errors.Wrap(err, "drawing ephemeral scalar")
		}

		// r = (e + x1) mod n where (x1, y1) = k·G
		r := ModAdd(e, c.ScalarBaseMult(k).x, n)
		if r.Sign() == 0 || new(big.Int).Add(r, k).Cmp(n) == 0 {
			k.SetInt64(0)
			log().Debug("rejected ephemeral scalar", zap.Int("attempt", attempt))
			continue
		}

		// s = (1+d)^-1 (k - r·d) mod n
		t := new(big.Int).Mul(r, d)
		t.Sub(k, t)
		sv := ModMul(dInv, t, n)
		k.SetInt64(0)
		t.SetInt64(0)
		if sv.Sign() == 0 {
			log().Debug("rejected zero s", zap.Int("attempt", attempt))
			continue
		}
		return &Signature{R: r, S: sv}, nil
	}
	return nil, errors.Wrapf(ErrRetryExhausted, "no signature after %d attempts", signMaxAttempts)
}

// Verifier checks signatures for one identity and public key.
type Verifier struct {
	curve *Curve
	pub   Point
	za    []byte
}

// NewVerifier validates pub and computes its identity digest.
func NewVerifier(c *Curve, identity []byte, pub Point) (*Verifier, error) {
	if err := ValidatePublicKey(c, pub); err != nil {
		return nil, err
	}
	za, err := ComputeZA(c, identity, pub)
	if err != nil {
		return nil, errors.Wrap(err, "computing identity digest")
	}
	return &Verifier{curve: c, pub: pub, za: za}, nil
}

// NewVerifierWithZA validates pub and returns a Verifier using a precomputed
// identity digest.
func NewVerifierWithZA(c *Curve, za []byte, pub Point) (*Verifier, error) {
	if err := ValidatePublicKey(c, pub); err != nil {
		return nil, err
	}
	if len(za) == 0 {
		return nil, errors.Wrap(ErrDomain, "empty identity digest")
	}
	return &Verifier{curve: c, pub: pub, za: append([]byte(nil), za...)}, nil
}

// ZA returns a copy of the cached identity digest.
func (v *Verifier) ZA() []byte { return append([]byte(nil), v.za...) }

// PublicKey returns the verifier's public point.
func (v *Verifier) PublicKey() Point { return v.pub }

// Verify reports whether sig is a valid signature of msg.
func (v *Verifier) Verify(msg []byte, sig *Signature) bool {
	return VerifyWithZA(v.curve, v.pub, v.za, msg, sig)
}

// inScalarRange reports whether 1 <= x <= n-1.
func inScalarRange(x, n *big.Int) bool {
	return x != nil && x.Sign() > 0 && x.Cmp(n) < 0
}

// VerifyWithZA reports whether sig is a valid signature of msg for the public
// key pub and identity digest za. Malformed, out-of-range or forged input
// yields false; it never panics on such input.
func VerifyWithZA(c *Curve, pub Point, za, msg []byte, sig *Signature) bool {
	if sig == nil || !inScalarRange(sig.R, c.n) || !inScalarRange(sig.S, c.n) {
		return false
	}
	if pub.IsInfinity() || !c.IsOnCurve(pub) {
		return false
	}
	e, err := messageDigest(za, msg)
	if err != nil {
		return false
	}
	t := ModAdd(sig.R, sig.S, c.n)
	if t.Sign() == 0 {
		return false
	}
	pt := c.CombinedMult(sig.S, pub, t)
	if pt.IsInfinity() {
		return false
	}
	return ModAdd(e, pt.x, c.n).Cmp(sig.R) == 0
}
