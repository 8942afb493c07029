// Package respond writes JSON responses and the error envelope.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/villageveggies/backend/internal/apperr"
)

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error maps err onto its status and writes the error envelope. Server-side
// failures are logged with the request id and answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	body := errorBody{Error: "internal server error"}
	if status < http.StatusInternalServerError {
		var e *apperr.Error
		if errors.As(err, &e) && e.Message != "" {
			body.Error = e.Message
			body.Details = e.Details
		} else {
			body.Error = kind.String()
		}
	} else {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
	}
	JSON(w, status, body)
}

const maxBodyBytes = 1 << 20

// Decode reads a JSON request body into v. Malformed or oversized bodies
// yield a validation error.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &apperr.Error{Kind: apperr.Validation, Message: "invalid request body", Err: err}
	}
	return nil
}
