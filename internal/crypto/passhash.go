// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	saltLen = 16
)

// HashPassword returns an encoded argon2id hash of the password: a fresh
// random salt followed by the derived key, so a single column stores both.
func HashPassword(password string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return append(salt, key...), nil
}

// VerifyPassword checks the password against an encoded hash produced by
// HashPassword using a constant-time comparison.
func VerifyPassword(password string, encoded []byte) bool {
	if len(encoded) != saltLen+int(argonKeyLen) {
		return false
	}
	salt, want := encoded[:saltLen], encoded[saltLen:]
	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(got, want) == 1
}
