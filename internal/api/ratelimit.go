package api

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// pairingRateLimit is a huma operation middleware that limits pairing
// attempts per client IP. RealIP has already rewritten RemoteAddr.
func (s *Server) pairingRateLimit(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx.RemoteAddr())
	if !s.pairLimiter.Allow(key) {
		retry := s.pairLimiter.RetryAfter(key)
		ctx.SetHeader("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		s.logger.Warn("pairing rate limit exceeded", "ip", key)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many pairing attempts, try again later")
		return
	}
	next(ctx)
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
