package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/WargaKeeper/internal/models"
	"go.uber.org/zap"
)

// writeError maps a core error to its HTTP status. Validation messages are
// returned to the caller; unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrDuplicateUsername):
		http.Error(w, "username already exists", http.StatusConflict)
	case errors.Is(err, models.ErrDuplicateNationalID):
		http.Error(w, "national id already exists", http.StatusConflict)
	case errors.Is(err, models.ErrStorageUnavailable):
		logger(log).Warn("storage unavailable", zap.String("op", op), zap.Error(err))
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		logger(log).Error("request failed", zap.String("op", op), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON value from the capped request body.
// Unknown fields are rejected when strict is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}

// writeDecodeError answers 413 for oversized bodies and 400 with msg otherwise.
func writeDecodeError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func logger(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
