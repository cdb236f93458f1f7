// Package cryptox implements the credential hasher: salted, deliberately
// slow password digests and their verification.
//
// Parameters are fixed: PBKDF2 over SHA-256, 100 000 iterations, 256-bit
// output, 16-byte salt. Salts and hashes travel as lowercase hex strings,
// matching what the credential store holds for every migrated account.
// Changing any of these values invalidates all stored credentials.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/fgodoybr/frotacontrol/internal/common"
)

const (
	saltSize   = 16
	iterations = 100_000
	keyLen     = 32
)

// GenerateSalt returns a fresh random salt, hex-encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: salt generation: %v", common.ErrCryptoUnavailable, err)
	}
	return hex.EncodeToString(b), nil
}

// Hash derives the password digest for the given hex-encoded salt.
// Same (password, salt) always yields the same result; different salts yield
// unrelated hashes even for identical passwords.
func Hash(password, salt string) (string, error) {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("%w: malformed salt: %v", common.ErrCryptoUnavailable, err)
	}
	key := pbkdf2.Key([]byte(password), rawSalt, iterations, keyLen, sha256.New)
	return hex.EncodeToString(key), nil
}

// Verify recomputes the digest and compares it with expectedHash in constant
// time. A malformed salt or stored hash is a hard failure, never reported as
// a wrong password.
func Verify(password, salt, expectedHash string) (bool, error) {
	expected, err := hex.DecodeString(expectedHash)
	if err != nil {
		return false, fmt.Errorf("%w: malformed stored hash: %v", common.ErrCryptoUnavailable, err)
	}

	candidate, err := Hash(password, salt)
	if err != nil {
		return false, err
	}
	raw, err := hex.DecodeString(candidate)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrCryptoUnavailable, err)
	}

	return subtle.ConstantTimeCompare(raw, expected) == 1, nil
}
