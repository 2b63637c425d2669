package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/tink"
)

const (
	// BlockSize is the AES block size; ciphertext lengths are multiples of it.
	BlockSize = aes.BlockSize
	// IVSize is the size of the IV at the start of a sealed blob.
	IVSize = aes.BlockSize
	// TagSize is the size of the HMAC-SHA256 tag at the end of a sealed blob.
	TagSize = sha256.Size
	// Overhead is the minimum size of a sealed blob.
	Overhead = IVSize + TagSize
)

// Codec seals and opens blobs under a single key.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	block  cipher.Block
	tagger tink.MAC
	random io.Reader
}

// Option configures a Codec.
type Option func(*Codec)

// WithRandom replaces the source used for IV generation.
// It must be a CSPRNG safe for concurrent reads.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		c.random = r
	}
}

// NewCodec creates a Codec for the given key.
func NewCodec(key Key, opts ...Option) (*Codec, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	tagger, err := newTagger(key)
	if err != nil {
		return nil, fmt.Errorf("creating tagger: %w", err)
	}

	codec := &Codec{
		block:  block,
		tagger: tagger,
		random: rand.Reader,
	}

	for _, opt := range opts {
		opt(codec)
	}

	return codec, nil
}

// Encode seals plaintext with a fresh IV under key.
func Encode(key Key, plaintext []byte) ([]byte, error) {
	codec, err := NewCodec(key)
	if err != nil {
		return nil, err
	}

	return codec.Encode(plaintext)
}

// Decode authenticates and opens a sealed blob under key.
func Decode(key Key, blob []byte) ([]byte, error) {
	codec, err := NewCodec(key)
	if err != nil {
		return nil, err
	}

	return codec.Decode(blob)
}

// Encode returns IV || ciphertext || tag for the given plaintext.
// The plaintext slice is not modified.
func (c *Codec) Encode(plaintext []byte) ([]byte, error) {
	padded := pkcs7Pad(plaintext, BlockSize)

	sealed := make([]byte, IVSize+len(padded), IVSize+len(padded)+TagSize)

	iv := sealed[:IVSize]
	if _, err := io.ReadFull(c.random, iv); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(sealed[IVSize:], padded)

	tag, err := c.tagger.ComputeMAC(sealed)
	if err != nil {
		return nil, fmt.Errorf("computing tag: %w", err)
	}

	return append(sealed, tag...), nil
}

// Decode verifies the tag of a sealed blob and only then decrypts it.
// It returns ErrFormat for malformed input and ErrAuthentication for a tag mismatch.
func (c *Codec) Decode(blob []byte) ([]byte, error) {
	signed, err := c.authenticate(blob)
	if err != nil {
		return nil, err
	}

	ciphertext := signed[IVSize:]
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: empty ciphertext", ErrFormat)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, signed[:IVSize]).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, BlockSize)
	if err != nil {
		return nil, fmt.Errorf("removing padding: %w", err)
	}

	return plaintext, nil
}

// Verify checks the layout and the tag of a sealed blob without decrypting it.
func (c *Codec) Verify(blob []byte) error {
	_, err := c.authenticate(blob)

	return err
}

// authenticate validates the positional layout and the tag, returning the signed region.
func (c *Codec) authenticate(blob []byte) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrFormat, len(blob), Overhead)
	}

	if (len(blob)-Overhead)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a multiple of block size", ErrFormat)
	}

	split := len(blob) - TagSize
	signed, tag := blob[:split], blob[split:]

	if err := c.tagger.VerifyMAC(tag, signed); err != nil {
		return nil, ErrAuthentication
	}

	return signed, nil
}
