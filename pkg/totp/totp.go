package totp

import "time"

// Generate computes the code for the current time window.
func Generate(params Params) (string, error) {
	return GenerateAt(params, time.Now())
}

// GenerateAt computes the code for the window containing t. Parameters are
// validated and the secret normalized before any cryptographic work.
func GenerateAt(params Params, t time.Time) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	key, err := NormalizeSecret(params.Secret)
	if err != nil {
		return "", err
	}

	counter := uint64(t.Unix() / int64(params.Period))
	return HOTP(key, counter, params.Algorithm, params.Digits)
}

// Remaining reports how many seconds of the current window are left at time
// t. Display-only; it does not affect code generation.
func Remaining(period int, t time.Time) int {
	if period <= 0 {
		return 0
	}
	return period - int(t.Unix()%int64(period))
}
