// Package cryptox derives the password key material used for sign-in.
// The password itself never leaves the client: the server only stores a
// verifier derived from it.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32

	// SaltLen is the size of a freshly generated user salt.
	SaltLen = 16
)

// DeriveMasterKey stretches password with salt using argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, keyLen)
}

// MakeVerifier hashes the master key into the value the server compares.
func MakeVerifier(masterKey []byte) []byte {
	sum := sha256.Sum256(masterKey)
	return sum[:]
}

// Verifier is DeriveMasterKey followed by MakeVerifier; the intermediate key
// is wiped before returning.
func Verifier(password, salt []byte) []byte {
	key := DeriveMasterKey(password, salt)
	v := MakeVerifier(key)
	for i := range key {
		key[i] = 0
	}
	return v
}
