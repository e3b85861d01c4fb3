package adaptive

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Key derivation errors.
var (
	ErrKeyTooShort = errors.New("adaptive: encryption key too short (minimum 16 bytes)")
	ErrEmptySalt   = errors.New("adaptive: salt must not be empty")
)

// MinKeyLength is the minimum accepted length for raw key material.
const MinKeyLength = 16

// Argon2id parameters for deriving the AEAD key from caller-supplied
// key material and salt.
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// DeriveKey derives a 32-byte AEAD key from arbitrary key material and
// a salt using Argon2id. The same material and salt always produce the
// same key, so a store encrypted with one pair can be reopened with it.
func DeriveKey(material, salt []byte) ([]byte, error) {
	if len(material) == 0 {
		return nil, ErrKeyTooShort
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}
	return argon2.IDKey(material, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen), nil
}

// GenerateKey generates a random key of the given length.
func GenerateKey(length int) ([]byte, error) {
	if length < MinKeyLength {
		return nil, ErrKeyTooShort
	}
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("adaptive: generate key: %w", err)
	}
	return key, nil
}

// ZeroKey zeros key material in memory.
func ZeroKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
