package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/khairulz/tripmate/internal/errs"
)

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps an error kind to its status code and writes the JSON
// body. Unrecognized errors are internal: the detail is logged, not leaked.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		msg = ve.Msg
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
		msg = "not found"
	case errors.Is(err, errs.ErrUnauthenticated):
		status = http.StatusUnauthorized
		msg = "invalid or expired credentials"
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
		msg = "authentication required"
	default:
		slog.Error("internal error", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// writeJSON writes a successful JSON response.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// decode reads a JSON request body into dst, rejecting unknown fields.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Validationf("invalid request body: %v", err)
	}
	return nil
}
