package sm2

import (
	"math/big"

	"github.com/pkg/errors"
)

// DefaultIdentity is the distinguishing identifier of the GB/T 32918 examples.
const DefaultIdentity = "ALICE123@YAHOO.COM"

// ComputeZA returns the identity digest
//
//	ZA = SM3(ENTLA || ID || a || b || gx || gy || Px || Py)
//
// binding identity and the public key pub to signatures. ENTLA is the 16-bit
// big-endian bit length of identity, so identities longer than 8191 bytes
// fail with ErrValueTooLarge. Curve constants and coordinates use their
// minimal big-endian encodings.
func ComputeZA(c *Curve, identity []byte, pub Point) ([]byte, error) {
	if pub.IsInfinity() {
		return nil, errors.Wrap(ErrInvalidPublicKey, "identity digest of the point at infinity")
	}
	entla, err := IntToBytes(new(big.Int).SetUint64(uint64(len(identity))*8), 2)
	if err != nil {
		return nil, errors.Wrap(err, "identity bit length")
	}
	za, err := SM3Hash(ConcatBytes(
		entla,
		identity,
		IntBytes(c.a),
		IntBytes(c.b),
		IntBytes(c.g.x),
		IntBytes(c.g.y),
		IntBytes(pub.x),
		IntBytes(pub.y),
	))
	if err != nil {
		return nil, errors.Wrap(err, "hashing identity")
	}
	return za, nil
}
