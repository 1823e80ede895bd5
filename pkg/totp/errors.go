package totp

import "errors"

var (
	// ErrInvalidSecret is returned when a secret fails every decode strategy.
	ErrInvalidSecret = errors.New("totp: secret is not valid base32, Crockford base32 or hex")

	// ErrInvalidParameters wraps every pre-flight validation failure.
	ErrInvalidParameters = errors.New("totp: invalid parameters")

	// ErrMissingSecret is returned when the secret string is empty.
	ErrMissingSecret = errors.New("totp: missing secret")

	// ErrInvalidDigits is returned when digits fall outside the 6..8 range.
	ErrInvalidDigits = errors.New("totp: digits must be between 6 and 8")

	// ErrInvalidPeriod is returned when the period is not positive.
	ErrInvalidPeriod = errors.New("totp: period must be positive")

	// ErrInvalidAlgorithm is returned for algorithms other than SHA1, SHA256 and SHA512.
	ErrInvalidAlgorithm = errors.New("totp: unsupported algorithm")

	// ErrInvalidURI is returned when an otpauth:// URI cannot be parsed.
	ErrInvalidURI = errors.New("totp: invalid otpauth URI")

	// ErrGeneratingSecret is returned when random secret generation fails.
	ErrGeneratingSecret = errors.New("totp: failed to generate secret")
)
