package cipher

import "errors"

var (
	// ErrInvalidFormat is returned when a ciphertext blob cannot be parsed in the expected shape.
	ErrInvalidFormat = errors.New("cipher: invalid ciphertext format")

	// ErrIntegrityCheckFailed is returned when the HMAC of an authenticated blob
	// does not verify. Decryption is aborted before touching the ciphertext.
	ErrIntegrityCheckFailed = errors.New("cipher: integrity check failed")

	// ErrInvalidKeySize is returned when a key of the wrong length is supplied to the V2 codec.
	ErrInvalidKeySize = errors.New("cipher: invalid key size, AES-256 requires 32 bytes")

	// ErrEmptyKey is returned when an empty key is supplied to the V1 codec.
	ErrEmptyKey = errors.New("cipher: empty key")

	// ErrInvalidPadding is returned when PKCS#7 padding does not validate after decryption.
	ErrInvalidPadding = errors.New("cipher: invalid padding")

	// ErrInvalidText is returned when decrypted bytes do not decode as UTF-8
	// in the final bytes-to-string step.
	ErrInvalidText = errors.New("cipher: decrypted bytes are not valid text")

	// ErrDecryptionFailed is returned when every key/format fallback combination has been exhausted.
	ErrDecryptionFailed = errors.New("cipher: decryption failed for all key and format candidates")

	// ErrNoCandidates is returned when fallback decryption is invoked without any candidate keys.
	ErrNoCandidates = errors.New("cipher: no candidate keys supplied")
)
