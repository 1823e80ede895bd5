package cipher

import (
	"errors"
	"fmt"
)

// Result describes a successful fallback decryption.
type Result struct {
	// Plaintext is the recovered secret.
	Plaintext string
	// Format is the format the successful attempt used.
	Format Format
	// KeyIndex is the index into the candidate slice of the key that worked.
	KeyIndex int
	// NeedsReencrypt is true when the blob was legacy V1 or transitional V2
	// and should be rewritten with EncryptV2 under the current key.
	NeedsReencrypt bool
}

// attempt is one (key, format) trial. Keeping it as data preserves the exact
// trial order: for each candidate key, the classified format first, then the
// opposite.
type attempt struct {
	keyIndex int
	format   Format
}

// DecryptWithFallback tries every candidate key against the blob, first in
// its classified format and then in the opposite one, and returns the first
// success. Candidate order matters and must follow the key manager's
// retrieval order: in-memory v2, persisted v2, persisted v1. Individual
// attempt failures, including integrity failures under a wrong key, are
// swallowed; only total exhaustion surfaces, as ErrDecryptionFailed tagged
// with the field label.
func DecryptWithFallback(blob string, keys [][]byte, field string) (*Result, error) {
	if len(keys) == 0 {
		return nil, ErrNoCandidates
	}

	classified := Classify(blob)
	other := FormatV1
	if classified == FormatV1 {
		other = FormatV2
	}

	attempts := make([]attempt, 0, len(keys)*2)
	for i := range keys {
		attempts = append(attempts, attempt{keyIndex: i, format: classified})
		attempts = append(attempts, attempt{keyIndex: i, format: other})
	}

	for _, a := range attempts {
		res, err := tryDecrypt(blob, keys[a.keyIndex], a.format)
		if err != nil {
			continue
		}
		res.KeyIndex = a.keyIndex
		return res, nil
	}

	return nil, errors.Join(ErrDecryptionFailed,
		fmt.Errorf("field %q: exhausted %d key/format combinations", field, len(attempts)))
}

func tryDecrypt(blob string, key []byte, format Format) (*Result, error) {
	switch format {
	case FormatV2:
		plaintext, transitional, err := DecryptV2(blob, key)
		if err != nil {
			return nil, err
		}
		return &Result{
			Plaintext:      plaintext,
			Format:         FormatV2,
			NeedsReencrypt: transitional,
		}, nil
	default:
		plaintext, err := DecryptV1(blob, key)
		if err != nil {
			return nil, err
		}
		return &Result{
			Plaintext:      plaintext,
			Format:         FormatV1,
			NeedsReencrypt: true,
		}, nil
	}
}
