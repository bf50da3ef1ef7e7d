package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/internal/metrics"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-Id"

// statusWriter records the status and size of a response
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.count += n
	return n, err
}

func (w *statusWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// RequestIDMiddleware propagates X-Request-Id, generating one when absent
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), ContextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware attaches a request-scoped logger and logs each request once it completes
func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.With().Str("request_id", r.Header.Get(requestIDHeader)).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(sw, r)

		event := logger.Info()
		if s.config.IsDev() {
			event = logger.Debug()
		}
		status := sw.statusCode()
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", sw.count).
			Dur("dur", time.Since(start)).
			Msg(statusColor(status) + http.StatusText(status) + ResetColor)
	})
}

// RecoverMiddleware turns a panic into a 500 without leaking its details
func (s *Server) RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Ctx(r.Context()).Error().
					Str("path", r.URL.Path).
					Str("reason", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")
				http.Error(w, apiclient.GenericMessage, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// MetricsMiddleware counts requests by method and status
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		metrics.ObserveHTTP(r.Method, sw.statusCode())
	})
}

func FrameSecurityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent embedding on other sites
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// No Origin header = same-origin request, no CORS headers needed
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		allowedOrigins := s.config.GetAllowedOrigins()
		isAllowed := allowedOrigins.IsAllowedOrigin(origin)
		isWildcard := allowedOrigins.IsAllowedOrigin("*")

		if r.Method == http.MethodOptions {
			if isAllowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			} else if isWildcard {
				// Don't set Allow-Credentials with wildcard
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			if isAllowed || isWildcard {
				w.Header().Set("Access-Control-Allow-Methods", s.config.GetAllowedMethods())
				w.Header().Set("Access-Control-Allow-Headers", s.config.GetAllowedHeaders())
				w.Header().Set("Access-Control-Max-Age", "86400")
			}
			// Browser will block the actual request when no CORS headers were set
			w.WriteHeader(http.StatusOK)
			return
		}

		if isAllowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		} else if isWildcard {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		next.ServeHTTP(w, r)
	})
}

// submitFence tracks mutating submissions in flight per session and form
type submitFence struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newSubmitFence() *submitFence {
	return &submitFence{inflight: make(map[string]struct{})}
}

func (f *submitFence) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.inflight[key]; busy {
		return false
	}
	f.inflight[key] = struct{}{}
	return true
}

func (f *submitFence) release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inflight, key)
}

// SubmitFenceMiddleware rejects a mutating submission while the same session
// still has one in flight for the same form.
func (s *Server) SubmitFenceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			next.ServeHTTP(w, r)
			return
		}

		c := consoleFrom(r.Context())
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := strings.Join([]string{c.sessionID, r.Method, r.URL.Path}, " ")
		if !s.fence.acquire(key) {
			log.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Duplicate submission rejected")
			http.Error(w, errors.ErrDuplicateSubmission.Error(), http.StatusConflict)
			return
		}
		defer s.fence.release(key)
		next.ServeHTTP(w, r)
	})
}
