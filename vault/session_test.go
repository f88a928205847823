package vault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnlockSessionSuccess(t *testing.T) {
	v := newTestVault(t)
	v.save(t, "alice")

	s := v.NewUnlockSession("alice")
	require.Equal(t, StateIdle, s.State())
	require.Equal(t, 3, s.AttemptsRemaining())

	_, err := s.Attempt(context.Background(), []byte("Wrong-Password-1"))
	require.ErrorIs(t, err, ErrWrongPassword)
	require.Equal(t, StateWrongPassword, s.State())
	require.Equal(t, 2, s.AttemptsRemaining())

	secret, err := s.Attempt(context.Background(), []byte(testPassword))
	require.NoError(t, err)
	defer secret.Destroy()
	require.Equal(t, StateSuccess, s.State())
	require.Equal(t, testMnemonic, string(secret.Bytes()))

	_, err = s.Attempt(context.Background(), []byte(testPassword))
	require.ErrorIs(t, err, ErrSessionClosed)
}

func TestUnlockSessionLockout(t *testing.T) {
	v := newTestVault(t)
	v.save(t, "alice")
	s := v.NewUnlockSession("alice")

	for i := 0; i < 3; i++ {
		_, err := s.Attempt(context.Background(), []byte("Wrong-Password-1"))
		require.Error(t, err)
	}
	require.Equal(t, StateLockedOut, s.State())
	require.Equal(t, 0, s.AttemptsRemaining())
	require.Equal(t, testStart.Add(30*time.Second), s.LockedUntil())

	calls := v.kdfCalls.Load()
	_, err := s.Attempt(context.Background(), []byte(testPassword))
	require.ErrorIs(t, err, ErrLockedOut)
	require.Equal(t, calls, v.kdfCalls.Load())

	// A new session for the same wallet sees the lockout too.
	require.Equal(t, StateLockedOut, v.NewUnlockSession("alice").State())

	v.clock.SetTime(testStart.Add(30 * time.Second))
	require.Equal(t, StateIdle, s.State())
	require.True(t, s.LockedUntil().IsZero())
	require.Equal(t, 3, s.AttemptsRemaining())

	secret, err := s.Attempt(context.Background(), []byte(testPassword))
	require.NoError(t, err)
	secret.Destroy()
}

func TestUnlockSessionFormatErrorIsTerminal(t *testing.T) {
	v := newTestVault(t)
	v.save(t, "alice")
	f := v.readRecord(t, "alice")
	f.Nonce = "AAAA"
	v.writeRecord(t, "alice", f)

	s := v.NewUnlockSession("alice")
	_, err := s.Attempt(context.Background(), []byte(testPassword))
	require.ErrorIs(t, err, ErrFormat)
	require.Equal(t, StateFormatError, s.State())

	_, err = s.Attempt(context.Background(), []byte(testPassword))
	require.ErrorIs(t, err, ErrSessionClosed)
}

func TestUnlockSessionAbandon(t *testing.T) {
	v := newTestVault(t)
	v.save(t, "alice")

	s := v.NewUnlockSession("alice")
	_, err := s.Attempt(context.Background(), []byte("Wrong-Password-1"))
	require.ErrorIs(t, err, ErrWrongPassword)
	require.Equal(t, 1, v.AttemptState("alice").Failed)

	s.Abandon()
	require.Zero(t, v.AttemptState("alice").Failed)
	_, err = s.Attempt(context.Background(), []byte(testPassword))
	require.ErrorIs(t, err, ErrSessionClosed)
}

func TestUnlockSessionNotFoundStaysIdle(t *testing.T) {
	v := newTestVault(t)

	s := v.NewUnlockSession("ghost")
	_, err := s.Attempt(context.Background(), []byte(testPassword))
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, StateIdle, s.State())
}

func TestLoadStateString(t *testing.T) {
	require.Equal(t, "locked_out", StateLockedOut.String())
	require.Equal(t, "LoadState(42)", LoadState(42).String())
}

func TestLoadAsync(t *testing.T) {
	v := newTestVault(t)
	v.save(t, "alice")

	res := <-v.LoadAsync(context.Background(), "alice", []byte(testPassword))
	require.NoError(t, res.Err)
	defer res.Secret.Destroy()
	require.Equal(t, testMnemonic, string(res.Secret.Bytes()))

	res = <-v.LoadAsync(context.Background(), "alice", []byte("Wrong-Password-1"))
	require.ErrorIs(t, res.Err, ErrWrongPassword)
	require.Nil(t, res.Secret)
}

func TestLoadAsyncAbandoned(t *testing.T) {
	v := newTestVault(t)
	v.save(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	ch := v.LoadAsync(ctx, "alice", []byte(testPassword))
	cancel()

	// The load still completes, then the undelivered secret is dropped.
	for res := range ch {
		// Delivery may win the race with cancellation.
		res.Secret.Destroy()
	}
	require.Zero(t, v.AttemptState("alice").Failed)
}

func TestSaveAsyncSurvivesCancellation(t *testing.T) {
	v := newTestVault(t)

	ctx, cancel := context.WithCancel(context.Background())
	ch := v.SaveAsync(ctx, "alice", testAddress, []byte(testMnemonic), []byte(testPassword))
	cancel()
	require.NoError(t, <-ch)

	exists, err := v.Exists("alice")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestUnlockSessionAttemptAsync(t *testing.T) {
	v := newTestVault(t)
	v.save(t, "alice")
	s := v.NewUnlockSession("alice")

	res := <-s.AttemptAsync(context.Background(), []byte("Wrong-Password-1"))
	require.ErrorIs(t, res.Err, ErrWrongPassword)
	require.Equal(t, StateWrongPassword, s.State())

	res = <-s.AttemptAsync(context.Background(), []byte(testPassword))
	require.NoError(t, res.Err)
	res.Secret.Destroy()
	require.Equal(t, StateSuccess, s.State())
}
