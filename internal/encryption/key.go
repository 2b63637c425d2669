package encryption

import "crypto/sha256"

// KeySize is the size of a derived key in bytes (AES-128).
const KeySize = 16

// Key is a symmetric key derived from a passphrase.
type Key [KeySize]byte

// DeriveKey hashes the passphrase with SHA-256 and keeps the first KeySize bytes.
// The truncation is part of the sealed format and must not change.
func DeriveKey(passphrase string) Key {
	sum := sha256.Sum256([]byte(passphrase))

	var key Key

	copy(key[:], sum[:KeySize])

	return key
}
