package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/clearchart/notevault/core"
)

// KeySize is the required encryption key length in bytes (AES-256).
const KeySize = 32

// Codec performs field-level encryption and blind-index hashing for note
// content. The key is injected at construction; there is no process-wide
// cipher state.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec creates a Codec from a 32-byte AES-256 key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// Encrypt encrypts a scalar text field. The ciphertext is base64-encoded
// with a random nonce prefix. Empty input passes through unchanged.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Ciphertext not produced under the current key,
// or mutated in storage, fails with core.ErrCorruptCiphertext; it is never
// returned as plausible plaintext. Empty input passes through unchanged.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrCorruptCiphertext, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext shorter than nonce", core.ErrCorruptCiphertext)
	}

	nonce, data := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, data, nil)
	if err != nil {
		// GCM authentication failed: wrong key or tampered data.
		return "", fmt.Errorf("%w: %w", core.ErrCorruptCiphertext, err)
	}
	return string(plaintext), nil
}

// BlindIndex computes the deterministic equality-search hash for a value.
// Input is case-folded before hashing so that search is case-insensitive.
// No per-run salt or secret pepper is mixed in; the hash must be stable
// across restarts for lookups to keep working.
func (c *Codec) BlindIndex(value string) core.TermHash {
	if value == "" {
		return ""
	}
	return core.HashTerm(strings.ToLower(value))
}

// TermHashes tokenizes free text and returns the blind-index hash of every
// distinct term, in first-appearance order.
func (c *Codec) TermHashes(text string) []core.TermHash {
	terms := Tokenize(text)
	hashes := make([]core.TermHash, 0, len(terms))
	for _, term := range terms {
		hashes = append(hashes, c.BlindIndex(term))
	}
	return hashes
}
