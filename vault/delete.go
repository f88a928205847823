package vault

import (
	"context"
	"errors"
	"os"

	"github.com/AlexZinkM/mantra-vault/internal/common"
)

// Delete removes a wallet. The file is overwritten with random bytes before it is
// unlinked; this is best-effort and gives no guarantee on journaling, copy-on-write or
// wear-levelled storage. Keep the mnemonic backed up elsewhere before deleting.
func (m *Manager) Delete(ctx context.Context, name string) (err error) {
	defer func() { m.logResult("delete", name, err) }()

	path, err := m.path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.locks.Lock(lockKey(path))
	defer m.locks.Unlock(lockKey(path))

	if err := common.SecureRemove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFound(name)
		}
		return ioErr("delete", path, err)
	}
	m.attempts.reset(name)
	return nil
}
