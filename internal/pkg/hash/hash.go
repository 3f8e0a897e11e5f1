// Package hash derives and verifies salted password hashes using
// PBKDF2-SHA512. Hash and salt are hex encoded for storage.
package hash

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	iterations = 10000
	keyBytes   = 64
)

// Derive hashes password with a fresh random salt and returns both hex encoded.
func Derive(password string) (hashHex, saltHex string, err error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex = hex.EncodeToString(salt)
	return DeriveWithSalt(password, saltHex), saltHex, nil
}

// DeriveWithSalt re-derives the hash for password under an existing hex salt.
// Deterministic: the same (password, salt) always yields the same hash.
func DeriveWithSalt(password, saltHex string) string {
	key := pbkdf2.Key([]byte(password), []byte(saltHex), iterations, keyBytes, sha512.New)
	return hex.EncodeToString(key)
}

// Verify reports whether password derives to expectedHex under saltHex.
// The comparison is constant-time; the KDF itself dominates the cost.
func Verify(password, saltHex, expectedHex string) bool {
	derived := DeriveWithSalt(password, saltHex)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(expectedHex)) == 1
}
