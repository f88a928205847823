package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/mantra-vault/internal/model"
	"github.com/AlexZinkM/mantra-vault/vault"
)

// maxBodyBytes caps request bodies; every request here is a few hundred bytes
const maxBodyBytes = 64 << 10

var errUnsupportedMediaType = errors.New("request body must be application/json")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	if errors.Is(err, errUnsupportedMediaType) {
		writeJSON(w, http.StatusUnsupportedMediaType, model.ErrorResponse{Error: err.Error(), Code: "unsupported_media_type"})
		return
	}
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "bad_request"})
}

// writeError maps a vault error to its HTTP status. Wrong passwords carry the number of
// attempts left, lockouts the time until the wallet accepts attempts again.
func writeError(w http.ResponseWriter, err error) {
	kind := vault.KindOf(err)
	resp := model.ErrorResponse{Error: err.Error(), Code: string(kind)}

	var (
		wrong  *vault.WrongPasswordError
		locked *vault.LockedOutError
	)
	switch {
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(locked.RemainingSeconds()))
		writeJSON(w, http.StatusTooManyRequests, model.LockoutResponse{
			Error:            err.Error(),
			Code:             string(kind),
			LockedUntil:      locked.Until,
			RemainingSeconds: locked.RemainingSeconds(),
		})
		return
	case errors.As(err, &wrong):
		remaining := wrong.AttemptsRemaining
		resp.AttemptsRemaining = &remaining
	}

	writeJSON(w, statusFor(kind), resp)
}

func statusFor(kind vault.ErrorKind) int {
	switch kind {
	case vault.KindNameConflict:
		return http.StatusConflict
	case vault.KindWeakPassword, vault.KindFormat:
		return http.StatusUnprocessableEntity
	case vault.KindWrongPassword:
		return http.StatusUnauthorized
	case vault.KindLockedOut:
		return http.StatusTooManyRequests
	case vault.KindNotFound:
		return http.StatusNotFound
	case vault.KindInvalidName:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body strictly. Anything not sent as application/json is refused, so a
// browser cannot reach these endpoints from another origin without a CORS preflight.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errUnsupportedMediaType
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

// methodAllowed writes 405 unless r uses method
func methodAllowed(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
		return false
	}
	return true
}
