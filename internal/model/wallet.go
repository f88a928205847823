package model

import "time"

// SchemaVersion is the version tag written as the first field of every .wallet file.
// Readers reject any other value.
const SchemaVersion = 1

// KDF algorithm identifiers stored in WalletFile.KDF.Algorithm
const (
	KDFArgon2id = "argon2id"
	KDFScrypt   = "scrypt"
)

// WalletFile represents .wallet file structure
type WalletFile struct {
	Version        int       `json:"version"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"` // plaintext, shown in selection lists without decryption
	CreatedAt      time.Time `json:"createdAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	KDF            KDFParams `json:"kdf"`
	Salt           string    `json:"salt"`       // base64
	Nonce          string    `json:"nonce"`      // base64
	CipherText     string    `json:"cipherText"` // base64, GCM tag appended
}

// KDFParams records how the encryption key of a wallet file was derived.
// Argon2id uses Time/Memory/Threads, scrypt uses N/R/P.
type KDFParams struct {
	Algorithm string `json:"algorithm"`
	Time      uint32 `json:"time,omitempty"`
	Memory    uint32 `json:"memory,omitempty"` // KiB
	Threads   uint8  `json:"threads,omitempty"`
	N         int    `json:"n,omitempty"`
	R         int    `json:"r,omitempty"`
	P         int    `json:"p,omitempty"`
}

// WalletSummary is the display-ready subset of a wallet file
type WalletSummary struct {
	Name           string    `json:"name" yaml:"name"`
	Address        string    `json:"address" yaml:"address"`
	CreatedAt      time.Time `json:"createdAt" yaml:"created_at"`
	LastAccessedAt time.Time `json:"lastAccessedAt" yaml:"last_accessed_at"`
}

// Summary returns the plaintext metadata of the file
func (f *WalletFile) Summary() WalletSummary {
	return WalletSummary{
		Name:           f.Name,
		Address:        f.Address,
		CreatedAt:      f.CreatedAt,
		LastAccessedAt: f.LastAccessedAt,
	}
}
