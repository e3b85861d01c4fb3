// Package adaptive provides the optional encryption layer for stored payloads.
//
// It implements a cipher abstraction that selects the best available
// algorithm for the host:
//
//   - AES-256-GCM: preferred when hardware AES support is available
//   - ChaCha20-Poly1305: fallback for systems without AES acceleration
//
// Keys are derived from caller-supplied key material and a salt with
// Argon2id, so the same (key, salt) pair always reopens the same store.
// Ciphertexts are nonce-prefixed AEAD output; EncryptString and
// DecryptString add base64 framing so encrypted payloads can be stored
// inside a text document.
//
// All cipher operations are safe for concurrent use.
package adaptive
