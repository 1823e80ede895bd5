package migrate

import "errors"

var (
	// ErrMissingField is returned when a migration is requested for an empty field name.
	ErrMissingField = errors.New("migrate: missing field name")

	// ErrNoTargetKey is returned when no v2 key is available to re-encrypt with.
	ErrNoTargetKey = errors.New("migrate: no v2 key available for re-encryption")

	// ErrStatus wraps failures reading or writing the global migration marker.
	ErrStatus = errors.New("migrate: failed to access migration status")
)
