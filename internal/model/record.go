package model

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	SaltLen  = 16
	NonceLen = 12
	TagLen   = 16 // AES-GCM authentication tag
)

// Bounds for KDF parameters read from disk. A file asking for more than this is treated
// as corrupt rather than allowed to exhaust memory or CPU.
const (
	minArgon2Memory  = 1024            // 1 MiB
	maxArgon2Memory  = 4 * 1024 * 1024 // 4 GiB
	maxArgon2Time    = 16
	maxArgon2Threads = 64
	minScryptN       = 1 << 10
	maxScryptN       = 1 << 22
	maxScryptR       = 32
	maxScryptP       = 16
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatError reports a structurally invalid wallet file. It is never returned for a
// wrong password.
type FormatError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "malformed wallet file"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError checks if error is FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func formatErr(field, reason string, err error) error {
	return &FormatError{Field: field, Reason: reason, Err: err}
}

// Validate checks the parameters are a known algorithm within sane bounds
func (p KDFParams) Validate() error {
	switch p.Algorithm {
	case KDFArgon2id:
		if p.Time == 0 || p.Time > maxArgon2Time {
			return fmt.Errorf("argon2id time %d out of range [1,%d]", p.Time, maxArgon2Time)
		}
		if p.Memory < minArgon2Memory || p.Memory > maxArgon2Memory {
			return fmt.Errorf("argon2id memory %d KiB out of range [%d,%d]", p.Memory, minArgon2Memory, maxArgon2Memory)
		}
		if p.Threads == 0 || p.Threads > maxArgon2Threads {
			return fmt.Errorf("argon2id threads %d out of range [1,%d]", p.Threads, maxArgon2Threads)
		}
	case KDFScrypt:
		if p.N < minScryptN || p.N > maxScryptN || p.N&(p.N-1) != 0 {
			return fmt.Errorf("scrypt N %d must be a power of two in [%d,%d]", p.N, minScryptN, maxScryptN)
		}
		if p.R <= 0 || p.R > maxScryptR {
			return fmt.Errorf("scrypt r %d out of range [1,%d]", p.R, maxScryptR)
		}
		if p.P <= 0 || p.P > maxScryptP {
			return fmt.Errorf("scrypt p %d out of range [1,%d]", p.P, maxScryptP)
		}
	default:
		return fmt.Errorf("unsupported kdf %q", p.Algorithm)
	}
	return nil
}

// MarshalWalletFile serializes the file as indented JSON with the version first
func MarshalWalletFile(f *WalletFile) ([]byte, error) {
	if f == nil {
		return nil, errors.New("nil wallet file")
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet file: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalWalletFile parses and structurally validates a wallet file.
// All failures are *FormatError; nothing here touches the ciphertext.
func UnmarshalWalletFile(data []byte) (*WalletFile, error) {
	// Skip UTF-8 BOM if present
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, formatErr("", "file is empty", nil)
	}

	// Check the version before decoding anything else, so a future layout is never
	// half-read into the current struct.
	var header struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, formatErr("", "invalid json", err)
	}
	if header.Version == nil {
		return nil, formatErr("version", "missing", nil)
	}
	if *header.Version != SchemaVersion {
		return nil, formatErr("version", fmt.Sprintf("unsupported schema version %d (expected %d)", *header.Version, SchemaVersion), nil)
	}

	var f WalletFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, formatErr("", "invalid json", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, formatErr("", "trailing data after wallet object", nil)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every field of the file for presence and shape
func (f *WalletFile) Validate() error {
	if f.Version != SchemaVersion {
		return formatErr("version", fmt.Sprintf("unsupported schema version %d", f.Version), nil)
	}
	if f.ID == "" {
		return formatErr("id", "missing", nil)
	}
	if f.Name == "" {
		return formatErr("name", "missing", nil)
	}
	if f.Address == "" {
		return formatErr("address", "missing", nil)
	}
	if f.CreatedAt.IsZero() {
		return formatErr("createdAt", "missing", nil)
	}
	if f.LastAccessedAt.IsZero() {
		return formatErr("lastAccessedAt", "missing", nil)
	}
	if err := f.KDF.Validate(); err != nil {
		return formatErr("kdf", "", err)
	}
	if _, err := f.SaltBytes(); err != nil {
		return err
	}
	if _, err := f.NonceBytes(); err != nil {
		return err
	}
	if _, err := f.CipherTextBytes(); err != nil {
		return err
	}
	return nil
}

// SaltBytes decodes the salt and checks its length
func (f *WalletFile) SaltBytes() ([]byte, error) {
	return decodeFixed("salt", f.Salt, SaltLen)
}

// NonceBytes decodes the nonce and checks its length
func (f *WalletFile) NonceBytes() ([]byte, error) {
	return decodeFixed("nonce", f.Nonce, NonceLen)
}

// CipherTextBytes decodes the ciphertext, which must at least hold the GCM tag
func (f *WalletFile) CipherTextBytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(f.CipherText)
	if err != nil {
		return nil, formatErr("cipherText", "invalid base64", err)
	}
	if len(b) <= TagLen {
		return nil, formatErr("cipherText", fmt.Sprintf("truncated: %d bytes", len(b)), nil)
	}
	return b, nil
}

func decodeFixed(field, value string, size int) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, formatErr(field, "invalid base64", err)
	}
	if len(b) != size {
		return nil, formatErr(field, fmt.Sprintf("expected %d bytes, got %d", size, len(b)), nil)
	}
	return b, nil
}
