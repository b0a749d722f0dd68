// Package response writes the versioned JSON envelope used by every API
// response, for handlers that bypass huma (file streams and multipart uploads).
package response

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// Version is the envelope format version. Clients reject versions they do
// not know.
const Version = 1

// Envelope wraps successful responses and simple errors.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope carries a machine-readable error code and optional details.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes data in a success envelope, or as a simple error for 4xx/5xx.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{
		Version: Version,
		Success: status < 400,
		Data:    data,
	}, logger)
}

// Success writes a 200 OK envelope.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Created writes a 201 Created envelope.
func Created(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, data, logger)
}

// Error writes an error envelope for err. Domain and store errors keep their
// code and status; anything else is logged and reported as internal.
func Error(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	var storeErr *store.Error

	switch {
	case errors.As(err, &domainErr):
		writeError(w, domainErr.HTTPStatus(), string(domainErr.Code), domainErr.Message, domainErr.Details, logger)
	case errors.As(err, &storeErr):
		code := domainerrors.CodeInternal
		switch {
		case errors.Is(err, store.ErrNotFound):
			code = domainerrors.CodeNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			code = domainerrors.CodeAlreadyExists
		}
		writeError(w, code.HTTPStatus(), string(code), storeErr.Message, nil, logger)
	case errors.Is(err, context.Canceled):
		// The client is gone; nothing useful can be written.
		if logger != nil {
			logger.Debug("request canceled", "error", err)
		}
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, string(domainerrors.CodeUnavailable), "request timed out", nil, logger)
	default:
		if logger != nil {
			logger.Error("unhandled error", "error", err)
		}
		InternalError(w, "internal server error", logger)
	}
}

// BadRequest writes a 400 validation error.
func BadRequest(w http.ResponseWriter, message string, logger *slog.Logger) {
	writeError(w, http.StatusBadRequest, string(domainerrors.CodeValidation), message, nil, logger)
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	writeError(w, http.StatusUnauthorized, string(domainerrors.CodeUnauthorized), message, nil, logger)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	writeError(w, http.StatusNotFound, string(domainerrors.CodeNotFound), message, nil, logger)
}

// TooManyRequests writes a 429.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", message, nil, logger)
}

// InternalError writes a 500.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	writeError(w, http.StatusInternalServerError, string(domainerrors.CodeInternal), message, nil, logger)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any, logger *slog.Logger) {
	write(w, status, ErrorEnvelope{
		Version: Version,
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}, logger)
}

func write(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
