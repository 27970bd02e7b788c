package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"aescore/internal/aes"
	"aescore/internal/auth"
	"aescore/internal/padding"
	"aescore/internal/services/cipherops"
	"aescore/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatus(w, http.StatusOK, v)
}

func respondStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps domain errors onto status codes. Anything unrecognised is
// logged and reported as a bare 500.
func respondError(w http.ResponseWriter, lg *zap.SugaredLogger, err error) {
	var ce *aes.ConfigurationError
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, padding.ErrPadding):
		// Same message for every padding failure.
		http.Error(w, "wrong key or corrupted data", http.StatusUnprocessableEntity)
	case errors.As(err, &ce),
		errors.Is(err, cipherops.ErrInvalidRequest),
		errors.Is(err, store.ErrUnknownRole),
		errors.Is(err, auth.ErrEmptyPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		http.Error(w, "already exists", http.StatusConflict)
	default:
		lg.Errorw("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// decodeJSON reads at most limit bytes of JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// badRequestBody answers a body that failed to decode or exceeded its limit.
func badRequestBody(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// audit records an action; a failure is logged and never fails the request.
func audit(r *http.Request, a Auditor, lg *zap.SugaredLogger, action string, md map[string]any) {
	uid := auth.Subject(r.Context())
	if err := a.Audit(r.Context(), uid, action, md); err != nil {
		lg.Warnw("audit log write failed", "action", action, "user_id", uid, "error", err)
	}
}
