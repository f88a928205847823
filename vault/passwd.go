package vault

import (
	"context"

	"github.com/AlexZinkM/mantra-vault/internal/crypto"
)

// ChangePassword re-encrypts a wallet under a new password. The old password is
// authenticated like Load (wrong attempts count toward lockout); the mnemonic is then
// sealed again with a fresh salt and nonce and the current KDF parameters.
// Both passwords are wiped before ChangePassword returns.
func (m *Manager) ChangePassword(ctx context.Context, name string, oldPassword, newPassword []byte) (err error) {
	defer crypto.Wipe(oldPassword)
	defer crypto.Wipe(newPassword)
	defer func() { m.logResult("change_password", name, err) }()

	path, err := m.path(name)
	if err != nil {
		return err
	}
	if res := m.policy.Check(newPassword); !res.OK() {
		return &WeakPasswordError{Result: res}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.locks.Lock(lockKey(path))
	defer m.locks.Unlock(lockKey(path))

	f, plaintext, err := m.open(name, path, oldPassword)
	if err != nil {
		return err
	}
	defer crypto.Wipe(plaintext)

	f.KDF = m.kdf
	f.LastAccessedAt = m.now()
	if err := m.seal(f, plaintext, newPassword); err != nil {
		return err
	}
	return m.writeFile(path, f)
}

// Reencrypt seals a wallet again under the same password with the manager's current KDF
// parameters, a fresh salt and a fresh nonce. It upgrades wallets written with older
// parameters, scrypt ones included. The password policy is not applied: the password
// already protects the wallet. password is wiped before Reencrypt returns.
func (m *Manager) Reencrypt(ctx context.Context, name string, password []byte) (err error) {
	defer crypto.Wipe(password)
	defer func() { m.logResult("reencrypt", name, err) }()

	path, err := m.path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.locks.Lock(lockKey(path))
	defer m.locks.Unlock(lockKey(path))

	f, plaintext, err := m.open(name, path, password)
	if err != nil {
		return err
	}
	defer crypto.Wipe(plaintext)

	f.KDF = m.kdf
	if err := m.seal(f, plaintext, password); err != nil {
		return err
	}
	return m.writeFile(path, f)
}
