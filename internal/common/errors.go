// Package common defines shared constants and sentinel errors used across
// the frotacontrol auth core. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store / repository errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// Authentication errors. Locked accounts are tracked separately from
	// bad credentials internally; to the end user both surface as the
	// same invalid-login message.
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrAccountLocked      = errors.New("account temporarily locked")

	// Password-change errors.
	ErrLegacyAccount = errors.New("account has no stored credentials")
	ErrNotAuthorized = errors.New("not authorized")

	// Hashing errors (primitives missing or stored material unusable).
	ErrCryptoUnavailable = errors.New("crypto primitives unavailable")
)
