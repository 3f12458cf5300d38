package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	identityDomain "github.com/felixgeelhaar/ordo/internal/identity/domain"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger assigns request and correlation IDs and logs each request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := observability.WithCorrelationID(
			observability.WithRequestID(r.Context(), r.Header.Get(headerRequestID)),
			r.Header.Get(headerCorrelationID),
		)
		w.Header().Set(headerRequestID, observability.RequestIDFromContext(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.app.Metrics.Counter(observability.MetricHTTPRequests, 1,
			observability.T("method", r.Method),
			observability.T("status", strconv.Itoa(rec.status)),
		)
		s.logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.ErrorContext(r.Context(), "panic serving request", "path", r.URL.Path, "panic", v)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authedFunc is a handler that runs for an authenticated caller.
type authedFunc func(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal)

var errMissingToken = shared.Classify(shared.ErrUnauthenticated, "missing or invalid Authorization header")

// authed enforces bearer authentication. The session and user are re-read
// on every request so revocations apply immediately.
func (s *Server) authed(next authedFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.fail(w, r, errMissingToken)
			return
		}
		p, err := s.app.AuthenticateHandler.Handle(r.Context(), token)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ctx := observability.WithUserID(r.Context(), p.UserID.String())
		next(w, r.WithContext(ctx), p)
	})
}

var errReadOnly = shared.Classify(shared.ErrNotAuthorized, "you do not have permission to modify data")

// mutating additionally requires the can_modify capability.
func (s *Server) mutating(next authedFunc) http.Handler {
	return s.authed(func(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
		if !p.CanModify {
			s.fail(w, r, errReadOnly)
			return
		}
		next(w, r, p)
	})
}
