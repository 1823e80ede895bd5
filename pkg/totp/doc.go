// Package totp generates time-based one-time codes for vault entries,
// implementing RFC 4226 (HOTP) and RFC 6238 (TOTP).
//
// Vault users paste TOTP secrets from many sources: authenticator exports,
// otpauth:// URIs, hex dumps, secrets re-typed with Crockford-style character
// confusions. NormalizeSecret is the single entry point that turns all of
// those into key bytes, trying in order: strict RFC 4648 base32, base32 after
// Crockford substitution (0→O, 1→I, 8→B, 9→G), even-length hex, and finally
// base32 over the input stripped of non-base32 characters. Only when every
// strategy fails does it return ErrInvalidSecret.
//
// Parameters are validated before any cryptographic work: a non-empty
// secret, digits between 6 and 8, a positive period, and one of SHA1, SHA256
// or SHA512. There is no silent coercion of out-of-range values.
//
// # Usage
//
//	params := totp.Params{Secret: "JBSWY3DPEHPK3PXP"}.WithDefaults()
//	code, err := totp.Generate(params)
//
//	key, err := totp.ParseURI("otpauth://totp/ACME:bob?secret=JBSWY3DPEHPK3PXP")
//
// Remaining reports the seconds left in the current window for countdown
// display; it is not part of the cryptographic contract.
package totp
