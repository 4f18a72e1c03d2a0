package sm2

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// SignatureScalarSize is the fixed width of r and s in the compact encoding.
const SignatureScalarSize = 32

// Signature is an SM2 signature (r, s).
type Signature struct {
	R, S *big.Int
}

// NewSignature builds a signature from the big-endian encodings of r and s.
func NewSignature(r, s []byte) *Signature {
	return &Signature{R: BytesToInt(r), S: BytesToInt(s)}
}

// RBytes returns the minimal big-endian encoding of r.
func (sig *Signature) RBytes() []byte { return IntBytes(sig.R) }

// SBytes returns the minimal big-endian encoding of s.
func (sig *Signature) SBytes() []byte { return IntBytes(sig.S) }

// String formats the signature as hex r and s.
func (sig *Signature) String() string {
	return fmt.Sprintf("(r=%s, s=%s)", sig.R.Text(16), sig.S.Text(16))
}

// Bytes returns the compact encoding r || s with each half padded to
// SignatureScalarSize bytes.
func (sig *Signature) Bytes() ([]byte, error) {
	r, err := IntToBytes(sig.R, SignatureScalarSize)
	if err != nil {
		return nil, errors.Wrap(err, "encoding r")
	}
	s, err := IntToBytes(sig.S, SignatureScalarSize)
	if err != nil {
		return nil, errors.Wrap(err, "encoding s")
	}
	return append(r, s...), nil
}

// ParseSignature decodes the compact r || s encoding. Range checks are left
// to verification.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) != 2*SignatureScalarSize {
		return nil, errors.Wrapf(ErrInvalidEncoding, "compact signature must be %d bytes, got %d", 2*SignatureScalarSize, len(b))
	}
	return NewSignature(b[:SignatureScalarSize], b[SignatureScalarSize:]), nil
}

// MarshalASN1 returns the DER encoding SEQUENCE { r INTEGER, s INTEGER }.
func (sig *Signature) MarshalASN1() ([]byte, error) {
	if sig.R == nil || sig.S == nil || sig.R.Sign() < 0 || sig.S.Sign() < 0 {
		return nil, errors.Wrap(ErrInvalidEncoding, "signature fields must be non-negative")
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(sig.R)
		b.AddASN1BigInt(sig.S)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "building DER signature")
	}
	return der, nil
}

// ParseSignatureASN1 decodes a DER signature, rejecting trailing data and
// negative integers.
func ParseSignatureASN1(der []byte) (*Signature, error) {
	r, s := new(big.Int), new(big.Int)
	var inner cryptobyte.String
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, errors.Wrap(ErrInvalidEncoding, "malformed DER signature")
	}
	if r.Sign() < 0 || s.Sign() < 0 {
		return nil, errors.Wrap(ErrInvalidEncoding, "negative signature field")
	}
	return &Signature{R: r, S: s}, nil
}
