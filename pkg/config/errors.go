package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the struct.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")

	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: nil pointer provided to loader")
)
