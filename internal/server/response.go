package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/wallet-ledger/internal/models"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps ledger error kinds to HTTP statuses. Every kind is an
// expected outcome the caller can act on; only unmapped errors are 500s.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidName),
		errors.Is(err, models.ErrSelfTransfer):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownRecipient),
		errors.Is(err, models.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
