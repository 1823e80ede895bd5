package keymgr

import "errors"

var (
	// ErrEmptyUserID is returned when an operation is attempted without a user identifier.
	ErrEmptyUserID = errors.New("keymgr: empty user id")

	// ErrKeyNotFound is returned when no key of the requested generation is stored for the user.
	ErrKeyNotFound = errors.New("keymgr: key not found")

	// ErrInvalidGeneration is returned for generation tags other than v1 and v2.
	ErrInvalidGeneration = errors.New("keymgr: invalid key generation")

	// ErrDerivationFailed wraps failures while deriving or persisting key material.
	ErrDerivationFailed = errors.New("keymgr: key derivation failed")

	// ErrGeneratingKey is returned when random key generation fails.
	ErrGeneratingKey = errors.New("keymgr: failed to generate key")
)
