package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexZinkM/mantra-vault/internal/model"
	"github.com/AlexZinkM/mantra-vault/mantra"
	"github.com/AlexZinkM/mantra-vault/vault"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic  = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	otherMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"
	testPassword  = "Correct-Horse-9battery"
)

func newTestHandler(t *testing.T) *VaultHandler {
	t.Helper()
	m, err := vault.NewManager(filepath.Join(t.TempDir(), "wallets"),
		vault.WithKDFParams(model.KDFParams{Algorithm: model.KDFArgon2id, Time: 1, Memory: 8 * 1024, Threads: 1}),
	)
	require.NoError(t, err)
	h, err := NewVaultHandler(m, zerolog.Nop())
	require.NoError(t, err)
	return h
}

func do(t *testing.T, fn http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func doRaw(fn http.HandlerFunc, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Origin", "https://elsewhere.example")
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func unlockAddress(t *testing.T, h *VaultHandler, name, password string) string {
	t.Helper()
	rec := do(t, h.Unlock, http.MethodPost, "/wallets/unlock", model.UnlockRequest{Name: name, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[model.UnlockResponse](t, rec).Address
}

func importWallet(t *testing.T, h *VaultHandler, name string) {
	t.Helper()
	rec := do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{Name: name, Mnemonic: testMnemonic, Password: testPassword})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestNewVaultHandler(t *testing.T) {
	_, err := NewVaultHandler(nil, zerolog.Nop())
	require.Error(t, err)
}

func TestImportAndList(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{
		Name:     "alice",
		Mnemonic: "  ABANDON abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about ",
		Password: testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[model.GenerateResponse](t, rec)
	want, err := mantra.DeriveAddress(testMnemonic, 0)
	require.NoError(t, err)
	require.Equal(t, want, resp.Address)
	require.Empty(t, resp.Mnemonic)

	rec = do(t, h.Wallets, http.MethodGet, "/wallets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[model.WalletListResponse](t, rec)
	require.Len(t, list.Wallets, 1)
	require.Equal(t, "alice", list.Wallets[0].Name)
	require.Equal(t, want, list.Wallets[0].Address)
}

func TestImportErrors(t *testing.T) {
	h := newTestHandler(t)
	importWallet(t, h, "alice")

	rec := do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{Name: "alice", Mnemonic: testMnemonic, Password: testPassword})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, string(vault.KindNameConflict), decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{Name: "bob", Mnemonic: testMnemonic, Password: "weak"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, string(vault.KindWeakPassword), decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{Name: "bob", Mnemonic: "not a mnemonic", Password: testPassword})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "invalid_mnemonic", decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, h.Wallets, http.MethodPost, "/wallets", map[string]string{"name": "bob", "unknown": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h.Wallets, http.MethodPut, "/wallets", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestsMustBeJSON(t *testing.T) {
	h := newTestHandler(t)
	importWallet(t, h, "alice")
	want := unlockAddress(t, h, "alice", testPassword)

	body, err := json.Marshal(model.ImportRequest{Name: "alice", Mnemonic: otherMnemonic, Password: testPassword, Overwrite: true})
	require.NoError(t, err)
	for _, contentType := range []string{"text/plain", "text/plain; charset=utf-8", "application/x-www-form-urlencoded", ""} {
		rec := doRaw(h.Wallets, "/wallets", contentType, string(body))
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code, contentType)
		require.Equal(t, "unsupported_media_type", decodeBody[model.ErrorResponse](t, rec).Code)
	}

	rec := doRaw(h.Rename, "/wallets/rename", "text/plain", `{"oldName":"alice","newName":"mallory"}`)
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	rec = doRaw(h.ChangePassword, "/wallets/password", "text/plain", `{"name":"alice","oldPassword":"x","newPassword":"y"}`)
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	require.Equal(t, want, unlockAddress(t, h, "alice", testPassword), "wallet is untouched")

	rec = doRaw(h.CheckPassword, "/password/check", "application/json; charset=utf-8", `{"password":"short"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestImportOverwriteNeedsCurrentPassword(t *testing.T) {
	h := newTestHandler(t)
	importWallet(t, h, "alice")
	original := unlockAddress(t, h, "alice", testPassword)

	rec := do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{
		Name: "alice", Mnemonic: otherMnemonic, Password: testPassword, Overwrite: true,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	require.Equal(t, "current_password_required", decodeBody[model.ErrorResponse](t, rec).Code)

	rec = do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{
		Name: "alice", Mnemonic: otherMnemonic, Password: testPassword, Overwrite: true, CurrentPassword: "Wrong-Password-1",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	resp := decodeBody[model.ErrorResponse](t, rec)
	require.Equal(t, string(vault.KindWrongPassword), resp.Code)
	require.NotNil(t, resp.AttemptsRemaining)
	require.Equal(t, 2, *resp.AttemptsRemaining)
	require.Equal(t, original, unlockAddress(t, h, "alice", testPassword))

	rec = do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{
		Name: "alice", Mnemonic: otherMnemonic, Password: testPassword, Overwrite: true, CurrentPassword: testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	replaced := decodeBody[model.GenerateResponse](t, rec).Address
	require.NotEqual(t, original, replaced)
	require.Equal(t, replaced, unlockAddress(t, h, "alice", testPassword))

	// Nothing to replace, nothing to authorize.
	rec = do(t, h.Wallets, http.MethodPost, "/wallets", model.ImportRequest{
		Name: "bob", Mnemonic: testMnemonic, Password: testPassword, Overwrite: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestGenerate(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h.Generate, http.MethodPost, "/wallets/generate", model.GenerateRequest{Name: "fresh", Password: testPassword})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[model.GenerateResponse](t, rec)
	require.True(t, resp.Success)
	require.True(t, mantra.ValidateMnemonic(resp.Mnemonic))

	addr, err := mantra.DeriveAddress(resp.Mnemonic, 0)
	require.NoError(t, err)
	require.Equal(t, addr, resp.Address)

	rec = do(t, h.Generate, http.MethodPost, "/wallets/generate", model.GenerateRequest{Name: "weak", Password: "short"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h.Generate, http.MethodPost, "/wallets/generate", model.GenerateRequest{Name: "odd", Password: testPassword, Words: 13})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h.Generate, http.MethodGet, "/wallets/generate", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUnlockLockout(t *testing.T) {
	h := newTestHandler(t)
	importWallet(t, h, "alice")

	rec := do(t, h.Unlock, http.MethodPost, "/wallets/unlock", model.UnlockRequest{Name: "alice", Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unlocked := decodeBody[model.UnlockResponse](t, rec)
	require.Equal(t, "alice", unlocked.Name)
	require.NotContains(t, rec.Body.String(), "abandon")

	for want := 2; want >= 1; want-- {
		rec = do(t, h.Unlock, http.MethodPost, "/wallets/unlock", model.UnlockRequest{Name: "alice", Password: "Wrong-Password-1"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.NotNil(t, resp.AttemptsRemaining)
		require.Equal(t, want, *resp.AttemptsRemaining)
	}

	rec = do(t, h.Unlock, http.MethodPost, "/wallets/unlock", model.UnlockRequest{Name: "alice", Password: "Wrong-Password-1"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "30", rec.Header().Get("Retry-After"))
	locked := decodeBody[model.LockoutResponse](t, rec)
	require.Equal(t, string(vault.KindLockedOut), locked.Code)
	require.Equal(t, 30, locked.RemainingSeconds)

	rec = do(t, h.Unlock, http.MethodPost, "/wallets/unlock", model.UnlockRequest{Name: "ghost", Password: testPassword})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameDeleteQR(t *testing.T) {
	h := newTestHandler(t)
	importWallet(t, h, "alice")

	rec := do(t, h.Rename, http.MethodPost, "/wallets/rename", model.RenameRequest{OldName: "alice", NewName: "main"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, h.QR, http.MethodGet, "/wallets/qr?name=main", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	qr := decodeBody[model.QRResponse](t, rec)
	require.NotEmpty(t, qr.QR)

	rec = do(t, h.QR, http.MethodGet, "/wallets/qr?name=alice", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h.Wallets, http.MethodDelete, "/wallets?name=main", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h.Wallets, http.MethodDelete, "/wallets?name=main", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h.Wallets, http.MethodDelete, "/wallets", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangePassword(t *testing.T) {
	h := newTestHandler(t)
	importWallet(t, h, "alice")
	newPassword := "Another#Strong7pass"

	rec := do(t, h.ChangePassword, http.MethodPost, "/wallets/password", model.ChangePasswordRequest{
		Name: "alice", OldPassword: testPassword, NewPassword: newPassword,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, h.Unlock, http.MethodPost, "/wallets/unlock", model.UnlockRequest{Name: "alice", Password: newPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h.ChangePassword, http.MethodPost, "/wallets/password", model.ChangePasswordRequest{
		Name: "alice", OldPassword: testPassword, NewPassword: newPassword,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckPassword(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h.CheckPassword, http.MethodPost, "/password/check", model.PasswordCheckRequest{Password: "password"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[model.PasswordCheckResponse](t, rec)
	require.False(t, resp.OK)
	require.Contains(t, resp.Failed, string(vault.RuleMinLength))
	require.Len(t, resp.Messages, len(resp.Failed))

	rec = do(t, h.CheckPassword, http.MethodPost, "/password/check", model.PasswordCheckRequest{Password: testPassword})
	resp = decodeBody[model.PasswordCheckResponse](t, rec)
	require.True(t, resp.OK)
	require.Empty(t, resp.Failed)
}

func TestCheck(t *testing.T) {
	h := newTestHandler(t)
	importWallet(t, h, "alice")

	rec := do(t, h.Check, http.MethodGet, "/wallets/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody[[]model.IntegrityEntry](t, rec)
	require.Len(t, entries, 1)
	require.True(t, entries[0].OK)
	require.Equal(t, "alice", entries[0].Name)
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, statusFor(vault.KindIO))
	require.Equal(t, http.StatusUnprocessableEntity, statusFor(vault.KindFormat))
	require.Equal(t, http.StatusInternalServerError, statusFor(vault.KindOther))
}
