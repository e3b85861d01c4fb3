// Package adaptive provides authenticated encryption with algorithm selection.
package adaptive

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"runtime"
)

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

var (
	// ErrCiphertextTooShort is returned when a ciphertext is shorter
	// than the nonce it must carry.
	ErrCiphertextTooShort = errors.New("adaptive: ciphertext too short")
)

// Cipher provides authenticated encryption for stored payloads.
type Cipher interface {
	// Type returns the cipher type.
	Type() CipherType

	// Encrypt encrypts plaintext with additional data.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	// Decrypt decrypts ciphertext with additional data.
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
}

// New creates a cipher with the given key, selecting the algorithm
// best suited to the hardware: AES-GCM where AES instructions are
// available, ChaCha20-Poly1305 otherwise.
func New(key []byte) (Cipher, error) {
	if hasAESHardware() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewWithType creates a cipher of the specified type. An empty type
// selects automatically.
func NewWithType(key []byte, cipherType CipherType) (Cipher, error) {
	switch cipherType {
	case "":
		return New(key)
	case CipherAESGCM:
		return NewAESGCM(key)
	case CipherChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("adaptive: unknown cipher type: " + string(cipherType))
	}
}

// hasAESHardware reports whether hardware AES acceleration is expected.
// Go's crypto/aes uses AES-NI on amd64 and the ARM crypto extensions on
// arm64; other architectures prefer ChaCha20.
func hasAESHardware() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// EncryptString encrypts a string payload and encodes the result as
// base64 so it can live inside a text document.
func EncryptString(c Cipher, plaintext string, additionalData []byte) (string, error) {
	ct, err := c.Encrypt([]byte(plaintext), additionalData)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptString reverses EncryptString.
func DecryptString(c Cipher, encoded string, additionalData []byte) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	pt, err := c.Decrypt(ct, additionalData)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// baseCipher provides the nonce handling shared by all ciphers.
type baseCipher struct {
	aead cipher.AEAD
}

// encrypt seals plaintext with a fresh random nonce, prepending the
// nonce to the ciphertext.
func (c *baseCipher) encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// decrypt opens a nonce-prefixed ciphertext.
func (c *baseCipher) decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[:c.aead.NonceSize()]
	return c.aead.Open(nil, nonce, ciphertext[c.aead.NonceSize():], additionalData)
}
