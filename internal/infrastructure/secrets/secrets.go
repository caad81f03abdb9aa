// Package secrets seals workspace marketplace API tokens at rest.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer encrypts and decrypts short secrets with XChaCha20-Poly1305.
// Ciphertexts are nonce||sealed and safe to store in a database column.
type Sealer struct {
	key []byte
}

// NewSealer builds a sealer from a 32-byte key given raw or hex-encoded
func NewSealer(key string) (*Sealer, error) {
	raw := []byte(key)
	if len(raw) == 2*chacha20poly1305.KeySize {
		decoded, err := hex.DecodeString(key)
		if err == nil {
			raw = decoded
		}
	}
	if len(raw) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("token key must be %d bytes, got %d", chacha20poly1305.KeySize, len(raw))
	}
	return &Sealer{key: raw}, nil
}

// Seal encrypts the plaintext and prepends the random nonce
func (s *Sealer) Seal(plaintext string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Open decrypts a nonce||ciphertext blob produced by Seal
func (s *Sealer) Open(sealed []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", fmt.Errorf("sealed token too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("token decryption failed: %w", err)
	}
	return string(plaintext), nil
}
