package totp

import (
	"crypto/hmac"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// HOTP computes an RFC 4226 one-time code for the given counter. The counter
// is encoded as 8 big-endian bytes, the HMAC digest is truncated dynamically
// (offset from the low nibble of the final byte, 31-bit big-endian value) and
// reduced modulo 10^digits, left-zero-padded to exactly digits characters.
func HOTP(key []byte, counter uint64, algorithm Algorithm, digits int) (string, error) {
	if digits < minDigits || digits > maxDigits {
		return "", errors.Join(ErrInvalidParameters, ErrInvalidDigits, fmt.Errorf("got %d", digits))
	}
	factory := algorithm.hashFactory()
	if factory == nil {
		return "", errors.Join(ErrInvalidParameters, ErrInvalidAlgorithm, fmt.Errorf("got %q", algorithm))
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(factory, key)
	mac.Write(msg[:])
	digest := mac.Sum(nil)

	offset := digest[len(digest)-1] & 0x0f
	truncated := binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7fffffff
	code := truncated % uint32(math.Pow10(digits))

	return fmt.Sprintf("%0*d", digits, code), nil
}
