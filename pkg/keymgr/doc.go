// Package keymgr derives, stores and retrieves the per-user symmetric keys
// of the AllOne vault across its two key generations.
//
// The current (v2) derivation is PBKDF2-HMAC-SHA256 over "userID:passphrase"
// with 100,000 iterations and a 256-bit output. The salt is generated on
// first derivation and persisted so the same key can be re-derived on any
// device holding the keystore. The legacy (v1) derivation is a single SHA-256
// digest over the user id, passphrase and a fixed application salt; it is
// kept only to decrypt data written before the migration and is never used to
// encrypt anything new.
//
// Derived keys are cached in a small LRU keyed by the full derivation inputs;
// evicted entries have their key bytes zeroed. PBKDF2 is CPU-bound, so
// DeriveAsync is provided to keep derivation off interactive paths.
//
// Candidates returns the decryption trial order the rest of the crypto core
// relies on: the caller's in-memory v2 key first (a live session may hold a
// fresher key than the keystore), then the persisted v2 key, then the
// persisted v1 key (a record may predate the user's migration).
//
// # Usage
//
//	mgr := keymgr.New(store)
//	derived, err := mgr.Derive(ctx, "user-42", passphrase, nil)
//	if err != nil {
//	    // handle error
//	}
//	keys, err := mgr.Candidates(ctx, "user-42", derived.Key.Material)
package keymgr
