// Package api exposes the SecretMenu services over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/secretmenu/secretmenu-server/internal/ratelimit"
)

// Options configures the HTTP surface.
type Options struct {
	Version     string
	CORSOrigins []string
	// EnableDebug registers the /api/v1/debug operations.
	EnableDebug bool
	// PairingPerMinute and PairingBurst bound pairing attempts per client IP.
	PairingPerMinute int
	PairingBurst     int
}

// Server holds the router, the huma API and the services behind them.
type Server struct {
	services    *Services
	router      *chi.Mux
	api         huma.API
	opts        Options
	pairLimiter *ratelimit.KeyedRateLimiter
	logger      *slog.Logger
}

// NewServer builds the router and registers every route.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.PairingPerMinute <= 0 {
		opts.PairingPerMinute = 5
	}
	if opts.PairingBurst <= 0 {
		opts.PairingBurst = 5
	}

	s := &Server{
		services: services,
		router:   chi.NewRouter(),
		opts:     opts,
		pairLimiter: ratelimit.New(
			float64(opts.PairingPerMinute)/time.Minute.Seconds(),
			opts.PairingBurst,
			10*time.Minute,
		),
		logger: logger,
	}

	s.setupMiddleware()
	s.setupAPI()
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for OpenAPI export and tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	s.pairLimiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(authMiddleware(s.services.Devices))
}

func (s *Server) setupAPI() {
	cfg := huma.DefaultConfig("SecretMenu API", s.opts.Version)
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	cfg.Transformers = append(cfg.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, cfg)
	RegisterErrorHandler()
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerDeviceRoutes()
	s.registerPlaceRoutes()
	s.registerOrderRoutes()
	s.registerPhotoRoutes()
	s.registerTagRoutes()
	s.registerPremiumRoutes()
	s.registerSettingsRoutes()
	s.registerSearchRoutes()
	s.registerExportRoutes()
	if s.opts.EnableDebug {
		s.registerDebugRoutes()
	}
}

// requestLogger logs one line per request at debug level, warn for 5xx.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
