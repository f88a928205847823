package vault

import (
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
)

const (
	DefaultMaxAttempts     = 3
	DefaultLockoutDuration = 30 * time.Second
)

// AttemptState is a snapshot of the unlock attempts for one wallet
type AttemptState struct {
	Name        string
	Failed      int
	LockedUntil time.Time
}

// Locked reports whether the wallet refuses attempts at now
func (s AttemptState) Locked(now time.Time) bool {
	return now.Before(s.LockedUntil)
}

// attemptTracker keeps per-wallet failed unlock counts in memory only.
// Lockout is a UX deterrent measured on the wall clock, not a defence against
// someone who can copy the file.
type attemptTracker struct {
	mu       sync.Mutex
	clock    clock.Clock
	max      int
	lockout  time.Duration
	attempts map[string]*AttemptState
}

func newAttemptTracker(clk clock.Clock, max int, lockout time.Duration) *attemptTracker {
	return &attemptTracker{
		clock:    clk,
		max:      max,
		lockout:  lockout,
		attempts: make(map[string]*AttemptState),
	}
}

// check returns a *LockedOutError while name is locked. An expired lock is cleared so the
// next attempt starts from zero.
func (t *attemptTracker) check(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.attempts[name]
	if !ok || st.LockedUntil.IsZero() {
		return nil
	}
	now := t.clock.Now()
	if st.Locked(now) {
		return &LockedOutError{Name: name, Until: st.LockedUntil, Remaining: st.LockedUntil.Sub(now)}
	}
	delete(t.attempts, name)
	return nil
}

// fail records an authentication failure and returns the error to surface:
// *WrongPasswordError while attempts remain, *LockedOutError once the budget is spent.
func (t *attemptTracker) fail(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.attempts[name]
	if !ok {
		st = &AttemptState{Name: name}
		t.attempts[name] = st
	}
	st.Failed++

	if st.Failed >= t.max {
		now := t.clock.Now()
		st.LockedUntil = now.Add(t.lockout)
		return &LockedOutError{Name: name, Until: st.LockedUntil, Remaining: t.lockout}
	}
	return &WrongPasswordError{Name: name, AttemptsRemaining: t.max - st.Failed}
}

// reset forgets all attempts for name, on success or when the caller abandons the flow
func (t *attemptTracker) reset(name string) {
	t.mu.Lock()
	delete(t.attempts, name)
	t.mu.Unlock()
}

// move carries the attempt state over a rename so a rename cannot clear a lockout
func (t *attemptTracker) move(oldName, newName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.attempts[oldName]
	if !ok {
		return
	}
	delete(t.attempts, oldName)
	st.Name = newName
	t.attempts[newName] = st
}

func (t *attemptTracker) state(name string) AttemptState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st, ok := t.attempts[name]; ok {
		return *st
	}
	return AttemptState{Name: name}
}
