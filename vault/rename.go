package vault

import (
	"context"
	"errors"
	"os"
)

// Rename changes the name of a wallet. Only metadata changes: the ciphertext, salt and
// nonce are carried over untouched, so no password is needed. The new name must be free.
func (m *Manager) Rename(ctx context.Context, oldName, newName string) (err error) {
	defer func() { m.logResult("rename", oldName, err) }()

	oldPath, err := m.path(oldName)
	if err != nil {
		return err
	}
	newPath, err := m.path(newName)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}

	unlock := m.locks.LockPair(lockKey(oldPath), lockKey(newPath))
	defer unlock()

	f, err := m.readFile(oldName, oldPath)
	if err != nil {
		return err
	}

	if newPath != oldPath {
		if _, err := os.Stat(newPath); err == nil {
			return &NameConflictError{Name: newName}
		} else if !errors.Is(err, os.ErrNotExist) {
			return ioErr("stat", newPath, err)
		}
	}

	f.Name = newName
	if err := m.writeFile(newPath, f); err != nil {
		return err
	}
	if newPath != oldPath {
		if err := os.Remove(oldPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			// Both files now hold the same ciphertext; drop the new one so the wallet
			// keeps exactly one name.
			_ = os.Remove(newPath)
			return ioErr("remove", oldPath, err)
		}
	}

	m.attempts.move(oldName, newName)
	return nil
}
