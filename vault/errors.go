package vault

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNameConflict  = errors.New("wallet name already in use")
	ErrWeakPassword  = errors.New("password does not meet policy")
	ErrWrongPassword = errors.New("wrong password")
	ErrLockedOut     = errors.New("too many failed attempts")
	ErrFormat        = errors.New("wallet file is corrupted or unsupported")
	ErrIO            = errors.New("wallet storage error")
	ErrNotFound      = errors.New("wallet not found")
	ErrInvalidName   = errors.New("invalid wallet name")
)

// ErrorKind classifies vault errors for front-ends and logs
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindNameConflict  ErrorKind = "name_conflict"
	KindWeakPassword  ErrorKind = "weak_password"
	KindWrongPassword ErrorKind = "wrong_password"
	KindLockedOut     ErrorKind = "locked_out"
	KindFormat        ErrorKind = "format_error"
	KindIO            ErrorKind = "io_error"
	KindNotFound      ErrorKind = "not_found"
	KindInvalidName   ErrorKind = "invalid_name"
	KindOther         ErrorKind = "other"
)

// KindOf maps err to its ErrorKind
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNameConflict):
		return KindNameConflict
	case errors.Is(err, ErrWeakPassword):
		return KindWeakPassword
	case errors.Is(err, ErrWrongPassword):
		return KindWrongPassword
	case errors.Is(err, ErrLockedOut):
		return KindLockedOut
	case errors.Is(err, ErrFormat):
		return KindFormat
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidName):
		return KindInvalidName
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindOther
	}
}

// NameConflictError is returned by Save and Rename when the target name is taken
type NameConflictError struct {
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("wallet %q already exists", e.Name)
}

func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// WeakPasswordError carries the full policy result so the caller can show every rule
type WeakPasswordError struct {
	Result PolicyResult
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Result.Messages(), "; ")
}

func (e *WeakPasswordError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Rule returns the first violated rule
func (e *WeakPasswordError) Rule() Rule {
	if len(e.Result.Failed) == 0 {
		return ""
	}
	return e.Result.Failed[0]
}

// WrongPasswordError is an authentication failure with attempts left before lockout
type WrongPasswordError struct {
	Name              string
	AttemptsRemaining int
}

func (e *WrongPasswordError) Error() string {
	attempt := "attempts"
	if e.AttemptsRemaining == 1 {
		attempt = "attempt"
	}
	return fmt.Sprintf("wrong password for wallet %q: %d %s remaining", e.Name, e.AttemptsRemaining, attempt)
}

func (e *WrongPasswordError) Is(target error) bool {
	return target == ErrWrongPassword
}

// LockedOutError is returned while a wallet refuses unlock attempts
type LockedOutError struct {
	Name      string
	Until     time.Time
	Remaining time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("wallet %q is locked after too many failed attempts, retry in %ds", e.Name, e.RemainingSeconds())
}

func (e *LockedOutError) Is(target error) bool {
	return target == ErrLockedOut
}

// RemainingSeconds rounds the remaining lockout up to whole seconds
func (e *LockedOutError) RemainingSeconds() int {
	if e.Remaining <= 0 {
		return 0
	}
	return int((e.Remaining + time.Second - 1) / time.Second)
}

// FormatError means the wallet file itself is unusable; retrying the password cannot help
type FormatError struct {
	Name string
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("wallet %q cannot be read: %v; restore the file from a backup or re-import the wallet from its mnemonic", e.Name, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// IOError wraps a filesystem failure with the operation and path
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func invalidName(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidName, err)
}
