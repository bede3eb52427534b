// Package http serves the spending dashboard API: JSON endpoints for
// profile, summaries, category breakdowns, trends, transactions, goals
// and filter options, all read through the presentation cache.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendash/internal/dashboard"
)

type Server struct {
	http.Server
	service     *dashboard.Service
	customerID  string
	rateLimiter *rateLimiter
	respCache   *ResponseCache
	metrics     *securityMetrics
	now         func() time.Time

	shutdownOnce sync.Once
}

// Options configures optional server behaviour.
type Options struct {
	// ResponseCache enables the shared Redis response cache when set.
	ResponseCache *ResponseCache
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. customerID is the only customer this instance serves;
// requests for any other id get a 404.
func NewServer(addr, customerID string, svc *dashboard.Service, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		service:     svc,
		customerID:  customerID,
		rateLimiter: newRateLimiter(),
		respCache:   opts.ResponseCache,
		metrics:     &securityMetrics{},
		now:         time.Now,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	api := func(h http.HandlerFunc) http.HandlerFunc {
		h = s.withCustomerCheck(h)
		if s.respCache != nil {
			h = s.respCache.middleware(h)
		}
		return s.withSecurityHeaders(h)
	}

	mux.HandleFunc("GET /api/customers/{customerID}/profile", api(s.handleProfile))
	mux.HandleFunc("GET /api/customers/{customerID}/spending/summary", api(s.handleSpendingSummary))
	mux.HandleFunc("GET /api/customers/{customerID}/spending/categories", api(s.handleSpendingCategories))
	mux.HandleFunc("GET /api/customers/{customerID}/spending/trends", api(s.handleSpendingTrends))
	mux.HandleFunc("GET /api/customers/{customerID}/transactions", api(s.handleTransactions))
	mux.HandleFunc("GET /api/customers/{customerID}/goals", api(s.handleGoals))
	mux.HandleFunc("GET /api/customers/{customerID}/filters", api(s.handleFilters))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.respCache != nil {
			s.respCache.Close()
		}
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

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request pattern",
				"request_id", requestID,
				"client_ip", clientIP,
				"url", r.URL.String())
		}

		if !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// withCustomerCheck rejects requests for customers this instance does
// not serve.
func (s *Server) withCustomerCheck(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("customerID") != s.customerID {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		next(w, r)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
