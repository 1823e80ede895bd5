// Package cipher implements the on-disk ciphertext generations of the
// AllOne vault and the fallback machinery that keeps every generation
// readable.
//
// Two codecs exist:
//
//   - V1 (legacy, decrypt-priority): a 12-byte random IV followed by a cyclic
//     XOR of the plaintext against the key bytes, base64-encoded as a single
//     blob. XOR carries no integrity check and "succeeds" on any input,
//     including wrong keys. That weakness is inherited from the data already
//     on disk. The only gate on this path is the final bytes-to-string
//     decode, which rejects output that is not valid UTF-8; wrong-key
//     garbage that happens to be decodable text still comes back as a
//     "success".
//   - V2 (current): AES-256-CBC with PKCS#7 padding plus HMAC-SHA256 in an
//     encrypt-then-MAC arrangement. The stored form is three colon-joined
//     base64 segments, iv:ciphertext:hmac. A transitional two-segment form
//     (iv:ciphertext, written before the HMAC was introduced) decrypts
//     without verification and is reported to the caller for re-encryption.
//
// Classify distinguishes the shapes by colon count: any blob containing a
// colon is V2-shaped, everything else is V1. The heuristic is ambiguous in
// principle; DecryptWithFallback compensates by retrying every candidate key
// in both formats rather than trusting the classification.
//
// # Usage
//
//	blob, err := cipher.EncryptV2("hunter2", key)
//	// store blob ...
//
//	res, err := cipher.DecryptWithFallback(blob, candidates, "password")
//	if err != nil {
//	    // every key/format combination failed
//	}
//	if res.NeedsReencrypt {
//	    // legacy or transitional data: write back with EncryptV2
//	}
//
// # Error Handling
//
// ErrIntegrityCheckFailed means an authenticated blob failed HMAC
// verification; decryption is never attempted after a failed check.
// ErrInvalidFormat covers unparseable blobs. ErrDecryptionFailed is returned
// only when fallback has exhausted every key/format combination.
package cipher
