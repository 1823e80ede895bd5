// Package migrate batch-converts legacy vault ciphertext to the current
// authenticated format, idempotently and without data loss.
//
// Each item's encrypted field is classified by shape. Already-authenticated
// V2 blobs pass through byte-for-byte unchanged, which is what makes a second
// run over a migrated collection a no-op. Transitional pre-HMAC V2 blobs are
// decrypted without verification and re-encrypted with an HMAC. Legacy V1
// blobs are decrypted with the historical key via fallback and re-encrypted
// under the current v2 key.
//
// Failures are tolerated per item: an item that cannot be decrypted keeps
// its original ciphertext, stays eligible for a retry, and never aborts the
// batch. Callers detect per-item success by comparing output against input;
// the Report only carries aggregate counts.
//
// The only persisted migration state is a single global {status, version}
// marker, YAML-serialized into the keystore. Per-item migration records are
// created, counted and discarded within one pass.
//
// MigrateCollection processes an in-memory batch concurrently, bounded by
// the configured limit. Run consumes an ItemSource instead and persists each
// re-encrypted item before starting the next, so a migration can be
// abandoned between items without corrupting state.
package migrate
