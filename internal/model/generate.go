package model

// GenerateRequest represents request for POST /wallets/generate
type GenerateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Words    int    `json:"words,omitempty"` // 12 or 24, default 12
}

// GenerateResponse represents response for POST /wallets/generate.
// The mnemonic is returned exactly once, the vault never hands it out again without a password.
type GenerateResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Mnemonic string `json:"mnemonic,omitempty"`
}
