package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/AlexZinkM/mantra-vault/internal/config"
	"github.com/AlexZinkM/mantra-vault/internal/crypto"
	"github.com/AlexZinkM/mantra-vault/internal/model"
	"github.com/AlexZinkM/mantra-vault/mantra"
	"github.com/AlexZinkM/mantra-vault/vault"

	"github.com/rs/zerolog"
)

var errCurrentPasswordRequired = errors.New("replacing an existing wallet requires its current password")

// VaultHandler serves the wallet vault over a local HTTP API.
// Request passwords arrive as JSON strings; they are copied into byte slices that the
// vault wipes, the decoded strings themselves cannot be cleared.
type VaultHandler struct {
	vault *vault.Manager
	log   zerolog.Logger
}

// NewVaultHandler creates a new VaultHandler
func NewVaultHandler(m *vault.Manager, log zerolog.Logger) (*VaultHandler, error) {
	if m == nil {
		return nil, errors.New("vault manager is required")
	}
	return &VaultHandler{vault: m, log: log.With().Str("component", "http").Logger()}, nil
}

// Wallets dispatches /wallets by method
func (h *VaultHandler) Wallets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Import(w, r)
	case http.MethodDelete:
		h.Delete(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "Method not allowed. Should be GET, POST or DELETE", http.StatusMethodNotAllowed)
	}
}

// List handles GET /wallets
// @Summary      List wallets
// @Description  Lists wallet names and addresses, most recently used first. Nothing is decrypted.
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  model.WalletListResponse
// @Router       /wallets [get]
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.vault.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.WalletListResponse{Wallets: wallets})
}

// Import handles POST /wallets
// @Summary      Import wallet
// @Description  Encrypts an existing mnemonic under a password and stores it. Replacing an existing wallet needs overwrite and that wallet's currentPassword.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportRequest  true  "Wallet data"
// @Success      201      {object}  model.GenerateResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      415      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      429      {object}  model.LockoutResponse
// @Router       /wallets [post]
func (h *VaultHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req model.ImportRequest
	if err := decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	mnemonic := config.NormalizeMnemonic([]byte(req.Mnemonic))
	defer crypto.Wipe(mnemonic)
	address, err := mantra.DeriveAddress(string(mnemonic), 0)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: err.Error(), Code: "invalid_mnemonic"})
		return
	}

	var opts []vault.SaveOption
	if req.Overwrite {
		if err := h.authorizeOverwrite(r.Context(), req.Name, req.CurrentPassword); err != nil {
			if errors.Is(err, errCurrentPasswordRequired) {
				writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Error: err.Error(), Code: "current_password_required"})
				return
			}
			writeError(w, err)
			return
		}
		opts = append(opts, vault.Overwrite())
	}
	if err := h.vault.Save(r.Context(), req.Name, address, mnemonic, []byte(req.Password), opts...); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.GenerateResponse{
		Success: true,
		Message: "Wallet imported successfully",
		Name:    req.Name,
		Address: address,
	})
}

// Generate handles POST /wallets/generate
// @Summary      Generate new wallet
// @Description  Generates a new mnemonic, encrypts it and returns it exactly once
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  true  "Wallet data"
// @Success      201      {object}  model.GenerateResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /wallets/generate [post]
func (h *VaultHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.GenerateRequest
	if err := decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.Words == 0 {
		req.Words = mantra.Words12
	}

	// Check the policy first so a weak password does not cost a mnemonic.
	if res := h.vault.Policy().Check([]byte(req.Password)); !res.OK() {
		writeError(w, &vault.WeakPasswordError{Result: res})
		return
	}

	mnemonic, address, err := mantra.GenerateWallet(req.Words)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.vault.Save(r.Context(), req.Name, address, []byte(mnemonic), []byte(req.Password)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.GenerateResponse{
		Success:  true,
		Message:  "Wallet generated successfully. Write down the mnemonic, it will not be shown again",
		Name:     req.Name,
		Address:  address,
		Mnemonic: mnemonic,
	})
}

// Unlock handles POST /wallets/unlock
// @Summary      Unlock wallet
// @Description  Verifies the password and that the mnemonic still derives the stored address. The mnemonic is never returned.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.UnlockRequest  true  "Credentials"
// @Success      200      {object}  model.UnlockResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      429      {object}  model.LockoutResponse
// @Router       /wallets/unlock [post]
func (h *VaultHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.UnlockRequest
	if err := decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	info, err := h.vault.Info(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	secret, err := h.vault.Load(r.Context(), req.Name, []byte(req.Password))
	if err != nil {
		writeError(w, err)
		return
	}
	address, err := deriveFromSecret(secret)
	secret.Destroy()
	if err != nil {
		writeError(w, err)
		return
	}
	if address != info.Address {
		h.log.Error().Str("wallet", req.Name).Msg("decrypted mnemonic does not match stored address")
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error: fmt.Sprintf("wallet %q: stored address does not match its mnemonic", req.Name),
			Code:  "address_mismatch",
		})
		return
	}

	writeJSON(w, http.StatusOK, model.UnlockResponse{Name: req.Name, Address: address})
}

// Rename handles POST /wallets/rename
// @Summary      Rename wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.RenameRequest  true  "Names"
// @Success      204
// @Failure      404      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallets/rename [post]
func (h *VaultHandler) Rename(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.RenameRequest
	if err := decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.vault.Rename(r.Context(), req.OldName, req.NewName); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles POST /wallets/password
// @Summary      Change wallet password
// @Description  Re-encrypts the wallet under a new password with a fresh salt and nonce
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      model.ChangePasswordRequest  true  "Passwords"
// @Success      204
// @Failure      401      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      429      {object}  model.LockoutResponse
// @Router       /wallets/password [post]
func (h *VaultHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.ChangePasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.vault.ChangePassword(r.Context(), req.Name, []byte(req.OldPassword), []byte(req.NewPassword)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /wallets?name=
// @Summary      Delete wallet
// @Description  Overwrites and removes the wallet file. Best-effort on SSD and copy-on-write filesystems.
// @Tags         wallets
// @Param        name  query  string  true  "Wallet name"
// @Success      204
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallets [delete]
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.vault.Delete(r.Context(), r.URL.Query().Get("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QR handles GET /wallets/qr?name=
// @Summary      Address QR code
// @Description  Returns the wallet address and its QR code as base64 PNG
// @Tags         wallets
// @Produce      json
// @Param        name  query     string  true  "Wallet name"
// @Success      200   {object}  model.QRResponse
// @Failure      404   {object}  model.ErrorResponse
// @Router       /wallets/qr [get]
func (h *VaultHandler) QR(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodGet) {
		return
	}

	info, err := h.vault.Info(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	qr, err := mantra.AddressQRCode(info.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.QRResponse{Address: info.Address, QR: qr})
}

// CheckPassword handles POST /password/check
// @Summary      Check password strength
// @Description  Evaluates a candidate password against the wallet password policy
// @Tags         password
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordCheckRequest  true  "Password"
// @Success      200      {object}  model.PasswordCheckResponse
// @Router       /password/check [post]
func (h *VaultHandler) CheckPassword(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.PasswordCheckRequest
	if err := decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	password := []byte(req.Password)
	res := h.vault.Policy().Check(password)
	crypto.Wipe(password)

	resp := model.PasswordCheckResponse{OK: res.OK(), Messages: res.Messages()}
	for _, rule := range res.Failed {
		resp.Failed = append(resp.Failed, string(rule))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Check handles GET /wallets/check
// @Summary      Check wallet files
// @Description  Validates every wallet file structurally and checks its permissions, without decrypting
// @Tags         wallets
// @Produce      json
// @Success      200  {array}  model.IntegrityEntry
// @Router       /wallets/check [get]
func (h *VaultHandler) Check(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodGet) {
		return
	}

	reports, err := h.vault.Check(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	entries := make([]model.IntegrityEntry, 0, len(reports))
	for _, rep := range reports {
		e := model.IntegrityEntry{File: rep.File, Name: rep.Name, OK: rep.OK()}
		if rep.Err != nil {
			e.Error = rep.Err.Error()
		}
		entries = append(entries, e)
	}
	writeJSON(w, http.StatusOK, entries)
}

// authorizeOverwrite unlocks the wallet about to be replaced with its current password.
// A failure counts as an attempt against that wallet.
func (h *VaultHandler) authorizeOverwrite(ctx context.Context, name, password string) error {
	exists, err := h.vault.Exists(name)
	if err != nil || !exists {
		return err
	}
	if password == "" {
		return errCurrentPasswordRequired
	}
	secret, err := h.vault.Load(ctx, name, []byte(password))
	if err != nil {
		h.log.Warn().Str("wallet", name).Str("kind", string(vault.KindOf(err))).Msg("overwrite refused")
		return err
	}
	secret.Destroy()
	return nil
}

func deriveFromSecret(secret *crypto.Secret) (string, error) {
	return mantra.DeriveAddress(secret.Reveal(), 0)
}
