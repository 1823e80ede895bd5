package keystore

import "errors"

var (
	// ErrNotFound is returned when no value exists for the requested key.
	ErrNotFound = errors.New("keystore: value not found")

	// ErrInvalidKey is returned when an empty or otherwise unusable logical key is supplied.
	ErrInvalidKey = errors.New("keystore: invalid key")

	// ErrStorage wraps underlying I/O failures of the backing store.
	ErrStorage = errors.New("keystore: storage failure")
)
