package signer

import (
	"math/big"

	"github.com/pkg/errors"

	"sm2.mleku.dev"
)

const (
	// SecretKeySize is the length of an encoded private scalar.
	SecretKeySize = 32
	// PublicKeySize is the length of a compressed public key.
	PublicKeySize = 33
	// SignatureSize is the length of a compact r || s signature.
	SignatureSize = 2 * sm2.SignatureScalarSize
)

// SM2Signer implements I with SM2 signatures on the default curve for a
// fixed signer identity.
type SM2Signer struct {
	identity []byte
	rnd      sm2.RandomSource

	kp       *sm2.KeyPair
	signer   *sm2.Signer
	verifier *sm2.Verifier
}

var _ I = (*SM2Signer)(nil)

// NewSM2Signer creates a signer for identity. Ephemeral scalars and
// generated keys come from rnd, or the system CSPRNG if rnd is nil.
func NewSM2Signer(identity []byte, rnd sm2.RandomSource) *SM2Signer {
	if rnd == nil {
		rnd = sm2.SystemRandom()
	}
	return &SM2Signer{identity: append([]byte(nil), identity...), rnd: rnd}
}

// Generate creates a fresh key pair.
func (s *SM2Signer) Generate() error {
	kp, err := sm2.GenerateKeyPair(sm2.DefaultCurve(), s.rnd)
	if err != nil {
		return err
	}
	return s.setKeyPair(kp)
}

// InitSec initialises the secret key from its 32-byte big-endian encoding.
func (s *SM2Signer) InitSec(sec []byte) error {
	if len(sec) != SecretKeySize {
		return errors.Errorf("secret key must be %d bytes", SecretKeySize)
	}
	kp, err := sm2.NewKeyPair(sm2.DefaultCurve(), new(big.Int).SetBytes(sec))
	if err != nil {
		return err
	}
	return s.setKeyPair(kp)
}

func (s *SM2Signer) setKeyPair(kp *sm2.KeyPair) error {
	sg, err := sm2.NewSigner(s.identity, kp, s.rnd)
	if err != nil {
		kp.Clear()
		return err
	}
	v, err := sm2.NewVerifierWithZA(kp.Curve(), sg.ZA(), kp.Public())
	if err != nil {
		kp.Clear()
		return err
	}
	s.Zero()
	s.kp, s.signer, s.verifier = kp, sg, v
	return nil
}

// InitPub initialises a verify-only signer from a compressed or uncompressed
// public key.
func (s *SM2Signer) InitPub(pub []byte) error {
	c := sm2.DefaultCurve()
	p, err := c.Unmarshal(pub)
	if err != nil {
		return err
	}
	v, err := sm2.NewVerifier(c, s.identity, p)
	if err != nil {
		return err
	}
	s.Zero()
	s.verifier = v
	return nil
}

// Sec returns the secret key bytes.
func (s *SM2Signer) Sec() []byte {
	if s.kp == nil {
		return nil
	}
	d := s.kp.Private()
	if d == nil {
		return nil
	}
	return d.FillBytes(make([]byte, SecretKeySize))
}

// Pub returns the 33-byte compressed public key.
func (s *SM2Signer) Pub() []byte {
	if s.verifier == nil {
		return nil
	}
	return sm2.DefaultCurve().MarshalCompressed(s.verifier.PublicKey())
}

// ZA returns the identity digest bound into every signature.
func (s *SM2Signer) ZA() []byte {
	if s.verifier == nil {
		return nil
	}
	return s.verifier.ZA()
}

// Sign returns the 64-byte compact signature of msg.
func (s *SM2Signer) Sign(msg []byte) (sig []byte, err error) {
	if s.signer == nil {
		return nil, errors.New("no secret key available for signing")
	}
	sg, err := s.signer.Sign(msg)
	if err != nil {
		return nil, err
	}
	return sg.Bytes()
}

// Verify checks a compact signature over msg.
func (s *SM2Signer) Verify(msg, sig []byte) (valid bool, err error) {
	if s.verifier == nil {
		return false, errors.New("no public key available for verification")
	}
	if len(sig) != SignatureSize {
		return false, errors.Errorf("signature must be %d bytes", SignatureSize)
	}
	sg, err := sm2.ParseSignature(sig)
	if err != nil {
		return false, err
	}
	return s.verifier.Verify(msg, sg), nil
}

// Zero wipes the secret key and forgets the public key.
func (s *SM2Signer) Zero() {
	if s.kp != nil {
		s.kp.Clear()
		s.kp = nil
	}
	s.signer = nil
	s.verifier = nil
}
