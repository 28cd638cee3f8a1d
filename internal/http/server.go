// Package http serves the local dashboard API: chart-ready JSON views of
// the remote expense data plus mutation endpoints that proxy writes and
// keep cached summaries fresh.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gider/internal/api"
	"gider/internal/dashboard"
	"gider/internal/log"
)

// Authenticator handles credential exchange against the remote API.
// The in-memory backend has no credentials, so this may be nil.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, p api.RegisterParams) error
}

var _ Authenticator = (*api.Client)(nil)

// SessionStore persists the bearer token between runs.
type SessionStore interface {
	Set(ctx context.Context, raw string) error
	Clear(ctx context.Context) error
}

type Server struct {
	http.Server
	svc          *dashboard.Service
	auth         Authenticator
	sessions     SessionStore
	rateLimiter  *rateLimiter
	log          *log.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, svc *dashboard.Service, auth Authenticator, sessions SessionStore, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:         svc,
		auth:        auth,
		sessions:    sessions,
		rateLimiter: newRateLimiter(),
		log:         logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/session", s.withSecurityHeaders(s.handleSession))
	mux.HandleFunc("POST /api/session/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("POST /api/session/logout", s.withSecurityHeaders(s.handleLogout))
	mux.HandleFunc("POST /api/session/register", s.withSecurityHeaders(s.handleRegister))

	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/charts/pie", s.withSecurityHeaders(s.handlePie))
	mux.HandleFunc("GET /api/charts/trend", s.withSecurityHeaders(s.handleTrend))

	mux.HandleFunc("GET /api/expenses", s.withSecurityHeaders(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withSecurityHeaders(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withSecurityHeaders(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withSecurityHeaders(s.handleDeleteCategory))
	mux.HandleFunc("POST /api/categories/{id}/limits", s.withSecurityHeaders(s.handleCreateCategoryLimit))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		s.log.DebugContext(r.Context(), "Request started",
			"request_id", requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
		)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.log.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; connect-src 'self'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.log.InfoContext(r.Context(), "Request completed",
			"request_id", requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP,
		)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
