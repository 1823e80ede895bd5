// Package allone is the on-device cryptography core of the AllOne personal
// vault: authenticated encryption of stored secrets, transparent decryption
// of three successive on-disk ciphertext generations, and RFC 4226/6238
// one-time code generation.
//
// The package composes the building blocks under pkg/ into a Vault facade
// that is constructed explicitly and owned by the caller; there are no
// package-level singletons. Screens, state stores and network clients are
// collaborators: they hand ciphertext blobs and an opaque passphrase to the
// Vault and consume plaintext or generated codes. The Vault itself performs
// no network I/O and never persists plaintext.
//
// # Usage
//
//	store, err := keystore.NewFile(cfg.StorePath)
//	if err != nil {
//	    // handle error
//	}
//	vault, err := allone.New("user-42", store)
//	if err != nil {
//	    // handle error
//	}
//
//	if err := vault.Unlock(ctx, passphrase); err != nil {
//	    // derivation or keystore failure
//	}
//	defer vault.Lock()
//
//	blob, err := vault.EncryptField(ctx, "hunter2")
//	plaintext, stale, err := vault.DecryptField(ctx, blob, "password")
//	if stale {
//	    // legacy or transitional ciphertext: re-encrypt or run Migrate
//	}
//
// # Ciphertext generations
//
// V1 is a legacy XOR construction, decrypt-only. V2 is AES-256-CBC with an
// HMAC-SHA256 tag (encrypt-then-MAC); a transitional pre-HMAC V2 shape
// decrypts but is flagged stale. DecryptField retries every candidate key in
// both formats, in a fixed order, and only reports failure when every
// combination is exhausted.
package allone
