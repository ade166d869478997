// Package cryptox holds the password hashing used by the credential service.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/flock/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32

	SaltLen = 16
)

// NewSalt returns a fresh random salt of SaltLen bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltLen)
}

// HashPassword derives the argon2id hash of password with the given salt.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword recomputes the hash of password and compares it with hash in
// constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	if len(hash) == 0 {
		return false
	}
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
