// Package keystore provides the secure key-value storage used by the vault
// crypto core for key material, salts and migration markers.
//
// The storage contract is deliberately small: opaque byte values addressed by
// string keys, namespaced per user. Values are durable across application
// restarts but are expected to disappear on reinstall, matching the behavior
// of platform secure-storage facilities the vault runs against.
//
// # Architecture
//
// The package exposes a single Store interface with two implementations:
//
//   - Memory – a mutex-guarded map for tests and ephemeral sessions.
//   - File – one file per logical key under a root directory. File names are
//     derived from a SHA-256 of the logical key so user-controlled identifiers
//     can never escape the root directory. Writes go through a temp file and
//     rename so a crash mid-write never leaves a torn value behind.
//
// Namespaced wraps any Store and prefixes every logical key with a user
// identifier, which is how per-user scoping is implemented throughout the
// crypto core.
//
// # Usage
//
//	store, err := keystore.NewFile("/var/lib/allone/keys")
//	if err != nil {
//	    // handle error
//	}
//	user := keystore.Namespaced(store, "user-42")
//
//	if err := user.Set(ctx, "key:v2", material); err != nil {
//	    // handle error
//	}
//
// # Error Handling
//
// Lookup misses return ErrNotFound; all other failures wrap ErrStorage with
// the underlying cause. Match with errors.Is.
package keystore
