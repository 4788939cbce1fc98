package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fixmate/fixmate/internal/domain"
)

// Callable error codes, mirrored on the wire.
const (
	codeInvalidArgument = "invalid-argument"
	codeUnauthenticated = "unauthenticated"
	codeNotFound        = "not-found"
	codeInternal        = "internal"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, codeInternal
	message := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, code = http.StatusBadRequest, codeInvalidArgument
	case errors.Is(err, domain.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, codeUnauthenticated
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrResultNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrCompletionUnavailable):
		// Surfaced as a generic, retryable failure.
		message = "the assistant is temporarily unavailable"
	default:
		message = "internal error"
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	respondJSON(w, status, errorResponse{Success: false, Error: message, Code: code})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalidArgument
	}
	return nil
}
