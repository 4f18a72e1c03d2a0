package sm2

import (
	"github.com/pkg/errors"
)

// Error kinds reported by this package. Returned errors wrap one of these
// with context, so callers should match with errors.Is.
var (
	// ErrDomain is returned for arithmetic on values outside an operation's
	// domain, such as inverting zero, or for invalid curve parameters.
	ErrDomain = errors.New("sm2: domain error")

	// ErrNoSquareRoot is returned when a value has no square root modulo p,
	// which for decompression means x is not the abscissa of a curve point.
	ErrNoSquareRoot = errors.New("sm2: no square root")

	// ErrInputTooLarge is returned when a message bit length does not fit the
	// 64-bit SM3 length field.
	ErrInputTooLarge = errors.New("sm2: input too large")

	// ErrValueTooLarge is returned when an integer does not fit a requested
	// fixed-width encoding.
	ErrValueTooLarge = errors.New("sm2: value too large")

	// ErrOutOfRange is returned when a scalar lies outside its permitted
	// interval.
	ErrOutOfRange = errors.New("sm2: value out of range")

	// ErrInvalidPublicKey is returned when a point fails public key
	// validation.
	ErrInvalidPublicKey = errors.New("sm2: invalid public key")

	// ErrRetryExhausted is returned when a randomized loop hits its attempt
	// cap. With a working random source this does not happen in practice.
	ErrRetryExhausted = errors.New("sm2: retry limit exhausted")

	// ErrInvalidEncoding is returned for malformed point or signature bytes.
	ErrInvalidEncoding = errors.New("sm2: invalid encoding")
)
