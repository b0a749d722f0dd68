package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/http/response"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// deviceKey is the context key for the authenticated device.
const deviceKey ctxKey = "device"

// bearerSecurity marks an operation as requiring a device token.
var bearerSecurity = []map[string][]string{{"bearer": {}}}

// DeviceFromContext returns the authenticated device, if any.
func DeviceFromContext(ctx context.Context) (*domain.Device, bool) {
	d, ok := ctx.Value(deviceKey).(*domain.Device)
	return d, ok && d != nil
}

// requireDevice returns the authenticated device or a 401.
func requireDevice(ctx context.Context) (*domain.Device, error) {
	d, ok := DeviceFromContext(ctx)
	if !ok {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	return d, nil
}

// authMiddleware validates a Bearer token when present and stores the device
// in the request context. Requests without a valid token continue
// anonymously; protected handlers reject them with requireDevice.
func authMiddleware(devices *service.DeviceService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || devices == nil {
				next.ServeHTTP(w, r)
				return
			}

			device, err := devices.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), deviceKey, device)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAuth rejects anonymous requests on routes served outside huma.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := DeviceFromContext(r.Context()); !ok {
			response.Unauthorized(w, "authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
