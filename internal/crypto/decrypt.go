package crypto

import (
	"errors"
	"fmt"
)

// ErrAuthentication is the only signal for a wrong password or a tampered ciphertext.
// The two cases are deliberately indistinguishable.
var ErrAuthentication = errors.New("authentication failed")

// Decrypt opens an AES-256-GCM ciphertext produced by Encrypt
func Decrypt(ciphertext, key, nonce, additionalData []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, fmt.Errorf("nonce must be %d bytes", aesGCM.NonceSize())
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
