package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/mantra-vault/internal/crypto"
)

// LoadState is the position of an UnlockSession in the unlock flow
type LoadState int

const (
	StateIdle LoadState = iota
	StateAuthenticating
	StateSuccess
	StateWrongPassword
	StateLockedOut
	StateFormatError
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateSuccess:
		return "success"
	case StateWrongPassword:
		return "wrong_password"
	case StateLockedOut:
		return "locked_out"
	case StateFormatError:
		return "format_error"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// ErrSessionClosed is returned by Attempt once a session has succeeded, hit a format
// error or been abandoned.
var ErrSessionClosed = errors.New("unlock session is closed")

// ErrAttemptInProgress is returned when Attempt is called while another attempt of the
// same session is still running
var ErrAttemptInProgress = errors.New("unlock attempt already in progress")

// UnlockSession drives the password prompt for one wallet:
//
//	Idle -> Authenticating -> Success | WrongPassword | LockedOut | FormatError
//	WrongPassword -> Authenticating (retry)
//	LockedOut -> Idle once the lockout has expired
//
// Success and FormatError are terminal.
type UnlockSession struct {
	m    *Manager
	name string

	mu        sync.Mutex
	state     LoadState
	remaining int
	until     time.Time
	closed    bool
}

// NewUnlockSession starts an unlock flow for wallet name
func (m *Manager) NewUnlockSession(name string) *UnlockSession {
	s := &UnlockSession{m: m, name: name}
	st := m.AttemptState(name)
	s.remaining = m.maxAttempts - st.Failed
	if st.Locked(m.clock.Now()) {
		s.state = StateLockedOut
		s.until = st.LockedUntil
		s.remaining = 0
	}
	return s
}

// Name returns the wallet the session unlocks
func (s *UnlockSession) Name() string {
	return s.name
}

// State returns the current state. An expired lockout reads as Idle.
func (s *UnlockSession) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return s.state
}

// AttemptsRemaining returns how many wrong passwords are left before a lockout
func (s *UnlockSession) AttemptsRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return s.remaining
}

// LockedUntil returns the end of the current lockout, zero when not locked
func (s *UnlockSession) LockedUntil() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	if s.state != StateLockedOut {
		return time.Time{}
	}
	return s.until
}

// Attempt tries password. On success the session is finished and the caller owns the
// returned secret. password is wiped before Attempt returns.
func (s *UnlockSession) Attempt(ctx context.Context, password []byte) (*crypto.Secret, error) {
	s.mu.Lock()
	s.expireLocked()
	switch {
	case s.closed || s.state == StateSuccess || s.state == StateFormatError:
		s.mu.Unlock()
		crypto.Wipe(password)
		return nil, ErrSessionClosed
	case s.state == StateAuthenticating:
		s.mu.Unlock()
		crypto.Wipe(password)
		return nil, ErrAttemptInProgress
	case s.state == StateLockedOut:
		now := s.m.clock.Now()
		s.mu.Unlock()
		crypto.Wipe(password)
		return nil, &LockedOutError{Name: s.name, Until: s.until, Remaining: s.until.Sub(now)}
	}
	prev := s.state
	s.state = StateAuthenticating
	s.mu.Unlock()

	secret, err := s.m.Load(ctx, s.name, password)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		wrong  *WrongPasswordError
		locked *LockedOutError
	)
	switch {
	case err == nil:
		s.state = StateSuccess
		s.remaining = s.m.maxAttempts
		if s.closed {
			// Abandoned while the KDF ran.
			secret.Destroy()
			return nil, ErrSessionClosed
		}
	case errors.As(err, &wrong):
		s.state = StateWrongPassword
		s.remaining = wrong.AttemptsRemaining
	case errors.As(err, &locked):
		s.state = StateLockedOut
		s.until = locked.Until
		s.remaining = 0
	case errors.Is(err, ErrFormat):
		s.state = StateFormatError
	default:
		// Cancelled, missing file or I/O trouble: nothing was attempted, try again.
		s.state = prev
	}
	return secret, err
}

// Abandon closes the session and forgets the wallet's failed attempts. An active
// lockout is kept.
func (s *UnlockSession) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.expireLocked()
	if s.state != StateLockedOut {
		s.m.attempts.reset(s.name)
	}
}

func (s *UnlockSession) expireLocked() {
	if s.state == StateLockedOut && !s.m.clock.Now().Before(s.until) {
		s.state = StateIdle
		s.remaining = s.m.maxAttempts
		s.until = time.Time{}
	}
}
