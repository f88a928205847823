package vault

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/AlexZinkM/mantra-vault/internal/crypto"
	"github.com/AlexZinkM/mantra-vault/internal/model"
)

// Load decrypts and returns the mnemonic of wallet name.
//
// A locked wallet fails with *LockedOutError before the file is read or the KDF runs.
// A wrong password (or a tampered ciphertext, the two are indistinguishable) fails with
// *WrongPasswordError, or *LockedOutError once the attempt budget is spent. A structurally
// broken file fails with *FormatError and does not count as an attempt.
//
// password is wiped before Load returns. The caller must Destroy the returned secret.
func (m *Manager) Load(ctx context.Context, name string, password []byte) (_ *crypto.Secret, err error) {
	defer crypto.Wipe(password)
	defer func() { m.logResult("load", name, err) }()

	path, err := m.path(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.locks.Lock(lockKey(path))
	defer m.locks.Unlock(lockKey(path))

	f, plaintext, err := m.open(name, path, password)
	if err != nil {
		return nil, err
	}
	secret := crypto.NewSecret(plaintext)

	f.LastAccessedAt = m.now()
	if werr := m.writeFile(path, f); werr != nil {
		// The mnemonic is already decrypted; a stale timestamp only affects list order.
		m.log.Warn().Str("wallet", name).Str("kind", string(KindOf(werr))).Msg("failed to update last access time")
	}
	return secret, nil
}

// open authenticates password against the wallet at path and returns the file and the
// plaintext. Attempt accounting happens here; the caller must hold the name lock.
func (m *Manager) open(name, path string, password []byte) (*model.WalletFile, []byte, error) {
	if err := m.attempts.check(name); err != nil {
		return nil, nil, err
	}
	if len(password) == 0 {
		return nil, nil, errors.New("password cannot be empty")
	}

	// Structural checks first: cheap, and a broken file is never a password problem.
	f, err := m.readFile(name, path)
	if err != nil {
		return nil, nil, err
	}
	salt, _ := f.SaltBytes()
	nonce, _ := f.NonceBytes()
	ciphertext, _ := f.CipherTextBytes()

	key, err := m.derive(password, salt, f.KDF)
	if err != nil {
		return nil, nil, err
	}
	defer crypto.Wipe(key)

	plaintext, err := crypto.Decrypt(ciphertext, key, nonce, additionalData(f))
	if errors.Is(err, crypto.ErrAuthentication) {
		authFailuresTotal.Inc()
		ferr := m.attempts.fail(name)
		if errors.Is(ferr, ErrLockedOut) {
			lockoutsTotal.Inc()
		}
		return nil, nil, ferr
	}
	if err != nil {
		return nil, nil, err
	}

	m.attempts.reset(name)
	return f, plaintext, nil
}

func encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
