package cipher

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// v1IVSize is the legacy IV length. The IV is stored but does not feed the
// XOR keystream; it only randomizes the encoded blob.
const v1IVSize = 12

// EncryptV1 encrypts plaintext with the legacy XOR scheme: a random 12-byte
// IV followed by the plaintext XORed cyclically against the key bytes, the
// whole base64-encoded. Retained for completeness and for tests; new data is
// always written with EncryptV2.
func EncryptV1(plaintext string, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}

	iv := make([]byte, v1IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Join(ErrInvalidFormat, err)
	}

	data := []byte(plaintext)
	out := make([]byte, v1IVSize+len(data))
	copy(out, iv)
	for i, b := range data {
		out[v1IVSize+i] = b ^ key[i%len(key)]
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptV1 reverses EncryptV1. URL-safe base64 variants and missing padding
// are normalized before decoding. There is no integrity check at this layer:
// a wrong key yields garbage, not an error, whenever the garbage still
// decodes as text. Only output that is not valid UTF-8 fails, in the final
// bytes-to-string step; same-key decryption always reproduces the original
// valid text.
func DecryptV1(blob string, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}

	raw, err := decodeBase64Lenient(blob)
	if err != nil {
		return "", errors.Join(ErrInvalidFormat, err)
	}
	if len(raw) < v1IVSize {
		return "", ErrInvalidFormat
	}

	body := raw[v1IVSize:]
	plain := make([]byte, len(body))
	for i, b := range body {
		plain[i] = b ^ key[i%len(key)]
	}

	return decodeText(plain)
}

// decodeBase64Lenient accepts standard and URL-safe alphabets, embedded
// whitespace and missing padding.
func decodeBase64Lenient(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		case '-':
			return '+'
		case '_':
			return '/'
		}
		return r
	}, s)
	s = strings.TrimRight(s, "=")

	return base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(s)
}

// decodeText converts recovered plaintext bytes to a string. Stored secrets
// are always text, so output that fails to decode can only come from a wrong
// key; surfacing it lets fallback move on to the next candidate instead of
// returning mojibake as a "success".
func decodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidText
	}
	return string(b), nil
}
