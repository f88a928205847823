package vault

import (
	"context"

	"github.com/AlexZinkM/mantra-vault/internal/crypto"
)

// LoadResult is the outcome of LoadAsync
type LoadResult struct {
	Secret *crypto.Secret
	Err    error
}

// LoadAsync runs Load on its own goroutine and delivers the result on the returned
// channel, so a UI loop can keep redrawing while the KDF runs.
//
// Cancelling ctx does not interrupt the KDF. It abandons the result instead: a secret
// that nobody receives is destroyed. The caller must either receive from the channel or
// cancel ctx.
func (m *Manager) LoadAsync(ctx context.Context, name string, password []byte) <-chan LoadResult {
	out := make(chan LoadResult)
	go func() {
		secret, err := m.Load(context.WithoutCancel(ctx), name, password)
		select {
		case out <- LoadResult{Secret: secret, Err: err}:
		case <-ctx.Done():
			secret.Destroy()
		}
		close(out)
	}()
	return out
}

// SaveAsync runs Save on its own goroutine. The write completes even if ctx is cancelled
// so a half-done save never leaves the caller guessing; the channel is buffered and the
// result may be ignored.
func (m *Manager) SaveAsync(ctx context.Context, name, address string, mnemonic, password []byte, opts ...SaveOption) <-chan error {
	out := make(chan error, 1)
	go func() {
		out <- m.Save(context.WithoutCancel(ctx), name, address, mnemonic, password, opts...)
		close(out)
	}()
	return out
}

// AttemptAsync runs Attempt on its own goroutine with the same delivery rules as
// LoadAsync: cancelling ctx abandons the result and destroys an undelivered secret.
func (s *UnlockSession) AttemptAsync(ctx context.Context, password []byte) <-chan LoadResult {
	out := make(chan LoadResult)
	go func() {
		secret, err := s.Attempt(context.WithoutCancel(ctx), password)
		select {
		case out <- LoadResult{Secret: secret, Err: err}:
		case <-ctx.Done():
			secret.Destroy()
		}
		close(out)
	}()
	return out
}
