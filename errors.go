package allone

import "errors"

var (
	// ErrLocked is returned when an operation requires an unlocked vault.
	ErrLocked = errors.New("allone: vault is locked")

	// ErrEmptyUserID is returned when a Vault is constructed without a user identifier.
	ErrEmptyUserID = errors.New("allone: empty user id")

	// ErrNilStore is returned when a Vault is constructed without a keystore.
	ErrNilStore = errors.New("allone: nil keystore")
)
