package totp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
)

// Algorithm is the HMAC hash used for code generation.
type Algorithm string

const (
	SHA1   Algorithm = "SHA1"
	SHA256 Algorithm = "SHA256"
	SHA512 Algorithm = "SHA512"
)

const (
	// DefaultDigits is the standard 6-digit code length.
	DefaultDigits = 6
	// DefaultPeriod is the standard 30-second window (RFC 6238).
	DefaultPeriod = 30
	// DefaultAlgorithm is HMAC-SHA1 (RFC 6238 standard).
	DefaultAlgorithm = SHA1

	minDigits = 6
	maxDigits = 8
)

// hashFactory returns the hash constructor for the algorithm, or nil when the
// algorithm is unknown.
func (a Algorithm) hashFactory() func() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New
	case SHA256:
		return sha256.New
	case SHA512:
		return sha512.New
	default:
		return nil
	}
}

// Params holds the inputs for code generation.
type Params struct {
	Secret    string    // Secret in any form NormalizeSecret accepts (required)
	Algorithm Algorithm // HMAC algorithm (optional, defaults to SHA1)
	Digits    int       // Code length (optional, defaults to 6)
	Period    int       // Window length in seconds (optional, defaults to 30)
}

// WithDefaults returns a copy with RFC 6238 defaults applied to zero-valued fields.
func (p Params) WithDefaults() Params {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// Validate rejects out-of-range parameters before any cryptographic work.
// Values are never silently coerced.
func (p Params) Validate() error {
	if p.Secret == "" {
		return errors.Join(ErrInvalidParameters, ErrMissingSecret)
	}
	if p.Digits < minDigits || p.Digits > maxDigits {
		return errors.Join(ErrInvalidParameters, ErrInvalidDigits,
			fmt.Errorf("got %d", p.Digits))
	}
	if p.Period <= 0 {
		return errors.Join(ErrInvalidParameters, ErrInvalidPeriod,
			fmt.Errorf("got %d", p.Period))
	}
	if p.Algorithm.hashFactory() == nil {
		return errors.Join(ErrInvalidParameters, ErrInvalidAlgorithm,
			fmt.Errorf("got %q", p.Algorithm))
	}
	return nil
}
