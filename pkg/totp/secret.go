package totp

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	nonBase32Regex  = regexp.MustCompile(`[^A-Z2-7]`)

	// crockfordReplacer maps the characters Crockford base32 treats as
	// aliases back to their RFC 4648 letters, recovering secrets the user
	// re-typed from a confusable source.
	crockfordReplacer = strings.NewReplacer("0", "O", "1", "I", "8", "B", "9", "G")
)

// NormalizeSecret converts a user-supplied secret into key bytes. The input
// is uppercased, stripped of whitespace and trailing padding, then decoded by
// the first strategy that succeeds: strict base32, base32 after Crockford
// substitution, even-length hex, and base32 (both variants) over the input
// with all non-base32 characters removed.
func NormalizeSecret(raw string) ([]byte, error) {
	cleaned := strings.ToUpper(whitespaceRegex.ReplaceAllString(raw, ""))
	cleaned = strings.TrimRight(cleaned, "=")
	if cleaned == "" {
		return nil, ErrInvalidSecret
	}

	if key, err := decodeBase32(cleaned); err == nil {
		return key, nil
	}

	if key, err := decodeBase32(crockfordReplacer.Replace(cleaned)); err == nil {
		return key, nil
	}

	if len(cleaned)%2 == 0 {
		if key, err := hex.DecodeString(cleaned); err == nil {
			return key, nil
		}
	}

	if stripped := nonBase32Regex.ReplaceAllString(cleaned, ""); stripped != "" {
		if key, err := decodeBase32(stripped); err == nil {
			return key, nil
		}
	}
	// Substitute before stripping so confusable digits survive as letters.
	if stripped := nonBase32Regex.ReplaceAllString(crockfordReplacer.Replace(cleaned), ""); stripped != "" {
		if key, err := decodeBase32(stripped); err == nil {
			return key, nil
		}
	}

	return nil, ErrInvalidSecret
}

func decodeBase32(s string) ([]byte, error) {
	// The no-padding decoder silently drops trailing characters when the
	// length is impossible for unpadded base32, so the length has to be
	// rejected up front for the decode to be strict.
	switch len(s) % 8 {
	case 1, 3, 6:
		return nil, base32.CorruptInputError(len(s))
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
}

// GenerateSecret returns a new random 160-bit secret, base32-encoded without
// padding, suitable for provisioning a fresh TOTP entry.
func GenerateSecret() (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrGeneratingSecret, err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret), nil
}
