package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
	"github.com/ariefcatur/go-outbound-inventory/internal/logger"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// writeError maps domain errors to status codes. Decode failures of stored
// data are server errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, inventory.ErrValidation), errors.Is(err, inventory.ErrMalformed):
		code = http.StatusBadRequest
	case errors.Is(err, inventory.ErrNotFound):
		code = http.StatusNotFound
	default:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
