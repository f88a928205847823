package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/AlexZinkM/mantra-vault/internal/model"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

const (
	// Argon2id parameters for new wallets.
	// Security is prioritized over performance: ~64MB RAM and a few hundred
	// milliseconds per derivation on a desktop CPU.
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4

	// scrypt parameters, kept for wallets written with the scrypt KDF.
	// N=2^18 (~256MB RAM, 0.5-2s)
	scryptN = 1 << 18
	scryptR = 8
	scryptP = 1

	// KeyLen is the AES-256 key size
	KeyLen = 32
)

var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrInvalidSalt      = fmt.Errorf("salt must be %d bytes", model.SaltLen)
	ErrInvalidKDFParams = errors.New("invalid kdf parameters")
)

// DefaultKDFParams returns the Argon2id parameters used for new wallets
func DefaultKDFParams() model.KDFParams {
	return model.KDFParams{
		Algorithm: model.KDFArgon2id,
		Time:      argon2Time,
		Memory:    argon2Memory,
		Threads:   argon2Threads,
	}
}

// ScryptKDFParams returns the scrypt parameters
func ScryptKDFParams() model.KDFParams {
	return model.KDFParams{
		Algorithm: model.KDFScrypt,
		N:         scryptN,
		R:         scryptR,
		P:         scryptP,
	}
}

// DeriveKey derives a KeyLen-byte key from password and salt.
// It never reports a wrong password: any password yields some key, and a mismatch only
// shows up when Decrypt fails authentication.
// password must be []byte for security (caller should zero it after use)
func DeriveKey(password, salt []byte, params model.KDFParams) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if len(salt) != model.SaltLen {
		return nil, ErrInvalidSalt
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKDFParams, err)
	}

	switch params.Algorithm {
	case model.KDFArgon2id:
		return argon2.IDKey(password, salt, params.Time, params.Memory, params.Threads, KeyLen), nil
	case model.KDFScrypt:
		key, err := scrypt.Key(password, salt, params.N, params.R, params.P, KeyLen)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}
		return key, nil
	default:
		return nil, ErrInvalidKDFParams
	}
}

// NewSalt generates a fresh random salt
func NewSalt() ([]byte, error) {
	return randomBytes(model.SaltLen)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
