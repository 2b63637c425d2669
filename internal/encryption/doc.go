// Package encryption seals model artifacts with AES-128 CBC and an HMAC-SHA256 tag.
// A sealed blob is IV || ciphertext || tag with no header, lengths are positional.
// Keys are derived from a passphrase and passed around as values.
package encryption
