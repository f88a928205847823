package model

import "time"

// ImportRequest represents request for POST /wallets
type ImportRequest struct {
	Name      string `json:"name"`
	Mnemonic  string `json:"mnemonic"`
	Password  string `json:"password"`
	Overwrite bool   `json:"overwrite,omitempty"`

	// CurrentPassword unlocks the wallet being replaced when Overwrite is set
	CurrentPassword string `json:"currentPassword,omitempty"`
}

// UnlockRequest represents request for POST /wallets/unlock
type UnlockRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UnlockResponse represents response for POST /wallets/unlock
type UnlockResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RenameRequest represents request for POST /wallets/rename
type RenameRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// ChangePasswordRequest represents request for POST /wallets/password
type ChangePasswordRequest struct {
	Name        string `json:"name"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// PasswordCheckRequest represents request for POST /password/check
type PasswordCheckRequest struct {
	Password string `json:"password"`
}

// PasswordCheckResponse lists the policy rules a password fails
type PasswordCheckResponse struct {
	OK       bool     `json:"ok"`
	Failed   []string `json:"failed,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// WalletListResponse represents response for GET /wallets
type WalletListResponse struct {
	Wallets []WalletSummary `json:"wallets"`
}

// QRResponse represents response for GET /wallets/qr
type QRResponse struct {
	Address string `json:"address"`
	QR      string `json:"QR"` // base64 PNG
}

// IntegrityEntry is one line of GET /wallets/check
type IntegrityEntry struct {
	File  string `json:"file"`
	Name  string `json:"name,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// LockoutResponse is returned with 429 while a wallet is locked
type LockoutResponse struct {
	Error            string    `json:"error"`
	Code             string    `json:"code"`
	LockedUntil      time.Time `json:"lockedUntil"`
	RemainingSeconds int       `json:"remainingSeconds"`
}
