package vault

import (
	"context"
	"errors"

	"github.com/AlexZinkM/mantra-vault/internal/crypto"
	"github.com/AlexZinkM/mantra-vault/internal/model"

	"github.com/google/uuid"
)

type saveConfig struct {
	overwrite bool
}

// SaveOption modifies Save
type SaveOption func(*saveConfig)

// Overwrite allows Save to replace an existing wallet with the same name
func Overwrite() SaveOption {
	return func(c *saveConfig) {
		c.overwrite = true
	}
}

// Save encrypts mnemonic under password and stores it as wallet name.
// address is the wallet's public address, kept in plaintext for selection lists.
//
// mnemonic and password are wiped before Save returns, whatever the outcome.
// Every call draws a fresh salt, nonce and record ID.
func (m *Manager) Save(ctx context.Context, name, address string, mnemonic, password []byte, opts ...SaveOption) (err error) {
	defer crypto.Wipe(mnemonic)
	defer crypto.Wipe(password)
	defer func() { m.logResult("save", name, err) }()

	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	path, err := m.path(name)
	if err != nil {
		return err
	}
	if address == "" {
		return errors.New("wallet address cannot be empty")
	}
	if len(mnemonic) == 0 {
		return errors.New("mnemonic cannot be empty")
	}
	// Nothing has started yet, an abandoned call can still bail out cheaply.
	if err := ctx.Err(); err != nil {
		return err
	}

	m.locks.Lock(lockKey(path))
	defer m.locks.Unlock(lockKey(path))

	if !cfg.overwrite {
		exists, err := m.Exists(name)
		if err != nil {
			return err
		}
		if exists {
			return &NameConflictError{Name: name}
		}
	}

	if res := m.policy.Check(password); !res.OK() {
		return &WeakPasswordError{Result: res}
	}

	now := m.now()
	f := &model.WalletFile{
		Version:        model.SchemaVersion,
		ID:             uuid.NewString(),
		Name:           name,
		Address:        address,
		CreatedAt:      now,
		LastAccessedAt: now,
		KDF:            m.kdf,
	}
	if err := m.seal(f, mnemonic, password); err != nil {
		return err
	}

	if err := m.writeFile(path, f); err != nil {
		return err
	}
	if cfg.overwrite {
		// A replaced wallet starts with a clean attempt history.
		m.attempts.reset(name)
	}
	return nil
}

// seal draws a fresh salt and nonce, derives the key and fills the crypto fields of f
func (m *Manager) seal(f *model.WalletFile, mnemonic, password []byte) error {
	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}
	nonce, err := crypto.NewNonce()
	if err != nil {
		return err
	}

	key, err := m.derive(password, salt, f.KDF)
	if err != nil {
		return err
	}
	defer crypto.Wipe(key)

	ciphertext, err := crypto.Encrypt(mnemonic, key, nonce, additionalData(f))
	if err != nil {
		return err
	}

	f.Salt = encode(salt)
	f.Nonce = encode(nonce)
	f.CipherText = encode(ciphertext)
	return nil
}
