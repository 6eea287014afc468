// Package apiserver carries the HTTP surface of the backend: request
// validation, the cache-then-provider search flow, structured analysis
// endpoints and the streaming chat relay.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bionovax/bionova/internal/cache"
	"github.com/bionovax/bionova/internal/gemini"
	"github.com/bionovax/bionova/internal/types"
)

// Server wires the HTTP endpoints to the Gemini provider and the search
// cache. All dependencies are injected so tests can run against stubs.
type Server struct {
	config   *types.Config
	provider gemini.Provider
	store    *cache.Store
	logger   zerolog.Logger
	limiter  *ipRateLimiter
	flight   singleflight.Group

	// now is replaceable in tests that exercise time-dependent behavior.
	now func() time.Time

	httpServer   *http.Server
	shutdownOnce sync.Once
}

// NewServer creates the API server. The cache store may be nil, in which
// case every search goes to the provider.
func NewServer(cfg *types.Config, provider gemini.Provider, store *cache.Store, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("apiserver: config cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("apiserver: provider cannot be nil")
	}

	return &Server{
		config:   cfg,
		provider: provider,
		store:    store,
		logger:   logger,
		limiter:  newIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		now:      time.Now,
	}, nil
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.ServerHost, s.config.ServerPort),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ServerReadTimeout,
		WriteTimeout: s.config.ServerWriteTimeout,
		IdleTimeout:  s.config.ServerIdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("starting API server")
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errChan:
		return err
	}
}

// shutdown performs graceful shutdown, waiting for in-flight requests.
func (s *Server) shutdown() error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info().Msg("shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
	})
	return shutdownErr
}

// Handler returns the full middleware-wrapped handler. It is exported so
// tests can drive the server through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := s.setupRoutes()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return s.loggingMiddleware(corsHandler.Handler(s.rateLimitMiddleware(mux)))
}

// setupRoutes configures HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)

	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/extend-search", s.handleExtendSearch)
	mux.HandleFunc("POST /api/timeline-analysis", s.handleTimelineAnalysis)
	mux.HandleFunc("POST /api/comparison", s.handleComparison)
	mux.HandleFunc("POST /api/hypothesis", s.handleHypothesis)
	mux.HandleFunc("POST /api/glossary", s.handleGlossary)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	return mux
}

// loggingMiddleware tags every request with an ID and logs method, path,
// status and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		logger := s.logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context())))

		logger.Info().
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}

// rateLimitMiddleware enforces the per-IP request budget on every route.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiter.allow(ip) {
			s.logger.Warn().Str("ip", ip).Msg("rate limit exceeded")
			writeJSON(w, http.StatusTooManyRequests, errorBody{
				Error: "Too many requests from this IP, please try again after 15 minutes.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging. Flush is
// forwarded so chat streaming still works through the wrapper.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
