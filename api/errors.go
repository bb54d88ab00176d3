package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/versalles/versalles/identity"
	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func mapError(w http.ResponseWriter, err error) {
	var violations platform.Violations
	switch {
	case errors.As(err, &violations):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:      "validation failed",
			Violations: violations,
		})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, identity.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, identity.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "malformed email")
	case errors.Is(err, identity.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "password too weak")
	case errors.Is(err, identity.ErrEmailInUse):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, identity.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "identity provider unavailable")
	default:
		// Unexpected errors stay server-side; clients get a generic
		// message, never driver or wrap text.
		slog.Error("internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads and closes the request body into T. A malformed or
// oversized body is the client's fault, so the error text is safe to
// return as-is.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return v, false
	}
	return v, true
}
