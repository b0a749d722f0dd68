package response

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]string{"message": "test"}, discard)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, Version, result.Version)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, map[string]string{"id": "x"}, discard)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestError_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"limit reached is payment required", domainerrors.LimitReached("free order limit reached"), http.StatusPaymentRequired, "LIMIT_REACHED"},
		{"validation", domainerrors.Validation("title is required"), http.StatusBadRequest, "VALIDATION"},
		{"already exists", domainerrors.AlreadyExists("place exists"), http.StatusConflict, "ALREADY_EXISTS"},
		{"unavailable", domainerrors.Unavailable("ad provider timed out"), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"wrapped", errors.Join(errors.New("ctx"), domainerrors.NotFound("order not found")), http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, tt.err, discard)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeError(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, Version, env.Version)
			assert.Equal(t, tt.wantCode, env.Code)
		})
	}
}

func TestError_StoreErrors(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, store.ErrNotFound.WithMessage("place not found"), discard)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeError(t, w)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "place not found", env.Message)
}

func TestError_Unknown(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, errors.New("disk on fire"), discard)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeError(t, w)
	assert.Equal(t, "INTERNAL", env.Code)
	assert.NotContains(t, env.Message, "disk")
}

func TestError_DeadlineExceeded(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, context.DeadlineExceeded, discard)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", discard)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, w).Code)
}
