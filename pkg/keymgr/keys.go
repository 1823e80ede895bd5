package keymgr

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
)

// Generation tags a key with the on-disk format generation it belongs to.
type Generation string

const (
	// GenerationV1 is the legacy single-digest derivation, decrypt-only.
	GenerationV1 Generation = "v1"
	// GenerationV2 is the current PBKDF2 derivation.
	GenerationV2 Generation = "v2"
)

// Valid reports whether g is a known generation tag.
func (g Generation) Valid() bool {
	return g == GenerationV1 || g == GenerationV2
}

const (
	// KeySize is the symmetric key length in bytes (AES-256).
	KeySize = 32
	// SaltSize is the PBKDF2 salt length in bytes.
	SaltSize = 16
	// DefaultIterations is the PBKDF2 iteration count. Configurable upward,
	// never below.
	DefaultIterations = 100000

	// legacyAppSalt is the fixed application salt of the v1 derivation. It
	// must never change: it is baked into every v1 ciphertext still on disk.
	legacyAppSalt = "allone.vault.salt.2019"
)

// Key is per-user symmetric key material tagged with its generation.
type Key struct {
	Material   []byte
	Generation Generation
}

// DerivedKey is the result of a v2 derivation: the key plus the salt that
// produced it, so the salt can be persisted for reproducibility.
type DerivedKey struct {
	Key  Key
	Salt []byte
}

// DeriveLegacy computes the v1 key: a single SHA-256 digest over the user
// id, passphrase and the fixed application salt. Weak by modern standards;
// retained solely to decrypt data that predates the v2 migration.
func DeriveLegacy(userID, passphrase string) Key {
	sum := sha256.Sum256([]byte(userID + passphrase + legacyAppSalt))
	return Key{Material: sum[:], Generation: GenerationV1}
}

// GenerateKey returns a new random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrGeneratingKey, err)
	}
	return key, nil
}

func generateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Join(ErrDerivationFailed, err)
	}
	return salt, nil
}

// zero wipes key material in place.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
