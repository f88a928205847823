package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/AlexZinkM/mantra-vault/internal/model"
)

// NewNonce generates a fresh random GCM nonce
func NewNonce() ([]byte, error) {
	return randomBytes(model.NonceLen)
}

// Encrypt seals plaintext with AES-256-GCM. The authentication tag is appended to the
// returned ciphertext. additionalData is authenticated but not encrypted.
func Encrypt(plaintext, key, nonce, additionalData []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, fmt.Errorf("nonce must be %d bytes", aesGCM.NonceSize())
	}
	return aesGCM.Seal(nil, nonce, plaintext, additionalData), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("key must be %d bytes", KeyLen)
	}

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
