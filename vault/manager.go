// Package vault manages a directory of password-encrypted wallet files.
//
// Each wallet is one JSON file holding plaintext metadata (name, address, timestamps)
// and a mnemonic sealed with AES-256-GCM under a key derived from the user's password
// with Argon2id. The Manager owns the directory and every record lifecycle operation:
// list, save, load with attempt limiting, rename, delete and integrity checks.
//
// Key derivation is deliberately slow. Save, Load and ChangePassword block for hundreds of
// milliseconds and must not run on a UI event loop; see LoadAsync and SaveAsync.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexZinkM/mantra-vault/internal/common"
	"github.com/AlexZinkM/mantra-vault/internal/crypto"
	"github.com/AlexZinkM/mantra-vault/internal/model"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/rs/zerolog"
)

// Manager owns one vault directory. It is safe for concurrent use; operations on the same
// wallet are serialized, operations on different wallets run in parallel.
// No decrypted mnemonic is ever cached.
type Manager struct {
	dir      string
	clock    clock.Clock
	kdf      model.KDFParams
	policy   Policy
	log      zerolog.Logger
	locks    *nameMutex
	attempts *attemptTracker

	maxAttempts int
	lockout     time.Duration

	// deriveKey is crypto.DeriveKey, swapped in tests to observe KDF calls
	deriveKey func(password, salt []byte, params model.KDFParams) ([]byte, error)
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock used for timestamps and lockouts
func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithKDFParams sets the key derivation parameters for newly written wallets.
// Existing wallets keep the parameters recorded in their file.
func WithKDFParams(p model.KDFParams) Option {
	return func(m *Manager) {
		m.kdf = p
	}
}

// WithPolicy replaces the password policy applied by Save and ChangePassword
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// WithLogger sets the logger. Only wallet names and error kinds are ever logged.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithLockout sets how many consecutive wrong passwords lock a wallet and for how long
func WithLockout(maxAttempts int, d time.Duration) Option {
	return func(m *Manager) {
		m.maxAttempts = maxAttempts
		m.lockout = d
	}
}

// NewManager creates a manager for dir. The directory is created on the first save.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	if dir == "" {
		return nil, errors.New("vault directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault directory: %w", err)
	}

	m := &Manager{
		dir:         abs,
		clock:       clock.NewDefaultClock(),
		kdf:         crypto.DefaultKDFParams(),
		policy:      DefaultPolicy(),
		log:         zerolog.Nop(),
		locks:       newNameMutex(),
		maxAttempts: DefaultMaxAttempts,
		lockout:     DefaultLockoutDuration,
		deriveKey:   crypto.DeriveKey,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.kdf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kdf parameters: %w", err)
	}
	if m.maxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", m.maxAttempts)
	}
	if m.lockout <= 0 {
		return nil, fmt.Errorf("lockout duration must be positive, got %s", m.lockout)
	}
	m.attempts = newAttemptTracker(m.clock, m.maxAttempts, m.lockout)
	m.log = m.log.With().Str("component", "vault").Logger()

	return m, nil
}

// Dir returns the absolute vault directory
func (m *Manager) Dir() string {
	return m.dir
}

// Policy returns the password policy applied to new passwords
func (m *Manager) Policy() Policy {
	return m.policy
}

// AttemptState returns the current unlock attempt state of a wallet
func (m *Manager) AttemptState(name string) AttemptState {
	// Reading also expires a finished lockout.
	_ = m.attempts.check(name)
	return m.attempts.state(name)
}

// Exists reports whether a wallet file for name is present
func (m *Manager) Exists(name string) (bool, error) {
	path, err := m.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, ioErr("stat", path, err)
	}
}

// path validates name and maps it into the vault directory
func (m *Manager) path(name string) (string, error) {
	if err := common.ValidateWalletName(name); err != nil {
		return "", invalidName(err)
	}
	return filepath.Join(m.dir, common.WalletFileName(name)), nil
}

// lockKey is the file name: two names that map to the same file must serialize
func lockKey(path string) string {
	return filepath.Base(path)
}

// readFile reads and structurally validates the wallet file at path
func (m *Manager) readFile(name, path string) (*model.WalletFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, ioErr("read", path, err)
	}

	f, err := model.UnmarshalWalletFile(data)
	if err != nil {
		return nil, &FormatError{Name: name, Path: path, Err: err}
	}
	if f.Name != name {
		return nil, &FormatError{Name: name, Path: path, Err: fmt.Errorf("file belongs to wallet %q", f.Name)}
	}
	return f, nil
}

// writeFile serializes f and atomically replaces path with owner-only permissions
func (m *Manager) writeFile(path string, f *model.WalletFile) error {
	data, err := model.MarshalWalletFile(f)
	if err != nil {
		return err
	}
	if err := common.EnsurePrivateDir(m.dir); err != nil {
		return ioErr("create", m.dir, err)
	}
	if err := common.WriteFileAtomic(path, data, common.PrivateFileMode); err != nil {
		return ioErr("write", path, err)
	}
	return nil
}

// additionalData binds a ciphertext to its record, so a ciphertext copied into another
// wallet file fails authentication. The name is left out so rename needs no password.
func additionalData(f *model.WalletFile) []byte {
	return []byte(fmt.Sprintf("mantra-vault/v%d/%s", f.Version, f.ID))
}

func (m *Manager) now() time.Time {
	return m.clock.Now().UTC()
}

// derive runs the KDF and records its duration
func (m *Manager) derive(password, salt []byte, params model.KDFParams) ([]byte, error) {
	start := time.Now()
	key, err := m.deriveKey(password, salt, params)
	kdfDuration.WithLabelValues(params.Algorithm).Observe(time.Since(start).Seconds())
	return key, err
}

// logResult logs an operation outcome with the wallet name and error kind only
func (m *Manager) logResult(op, name string, err error) {
	kind := KindOf(err)
	operationsTotal.WithLabelValues(op, resultLabel(kind)).Inc()

	switch kind {
	case KindNone:
		m.log.Info().Str("op", op).Str("wallet", name).Msg("wallet operation succeeded")
	case KindIO, KindFormat, KindOther:
		m.log.Error().Str("op", op).Str("wallet", name).Str("kind", string(kind)).Msg("wallet operation failed")
	default:
		m.log.Warn().Str("op", op).Str("wallet", name).Str("kind", string(kind)).Msg("wallet operation rejected")
	}
}

func resultLabel(kind ErrorKind) string {
	if kind == KindNone {
		return "ok"
	}
	return string(kind)
}
