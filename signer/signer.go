// Package signer provides a byte-oriented key and signature interface over
// the sm2 package, used to abstract the signature algorithm from the usage.
package signer

// I is a signing key holder. A signer initialised with InitPub can only
// verify.
type I interface {
	// Generate creates a fresh key pair from system entropy.
	Generate() error
	// InitSec initialises the secret key from raw bytes and derives the
	// public key.
	InitSec(sec []byte) error
	// InitPub initialises a verify-only signer from an encoded public key.
	InitPub(pub []byte) error
	// Sec returns the secret key bytes, or nil for a verify-only signer.
	Sec() []byte
	// Pub returns the encoded public key.
	Pub() []byte
	// Sign signs msg with the secret key.
	Sign(msg []byte) (sig []byte, err error)
	// Verify checks sig over msg against the public key.
	Verify(msg, sig []byte) (valid bool, err error)
	// Zero wipes the secret key.
	Zero()
}
