// Package httputil centralizes JSON encoding and the translation of
// sentinel errors into HTTP responses so every handler speaks the same
// envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"domainwatch/pkg/platform/sentinel"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorMessage writes the standard error envelope.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteError maps sentinel errors to status codes. Anything unmapped is
// an internal error and the detail stays out of the response.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		WriteErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, sentinel.ErrConflict):
		WriteErrorMessage(w, http.StatusConflict, "already exists")
	case errors.Is(err, sentinel.ErrExpired):
		WriteErrorMessage(w, http.StatusGone, "expired")
	case errors.Is(err, sentinel.ErrMismatch):
		WriteErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, sentinel.ErrNotConfigured):
		WriteErrorMessage(w, http.StatusServiceUnavailable, "feature not configured")
	case errors.Is(err, sentinel.ErrUnavailable):
		WriteErrorMessage(w, http.StatusBadGateway, "upstream unavailable")
	default:
		WriteErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
