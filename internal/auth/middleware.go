package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stashkeep/stash-api/internal/httpx"
)

// TokenVerifier is the narrow surface the middleware needs from a Verifier.
type TokenVerifier interface {
	ValidateToken(ctx context.Context, token string) (*Principal, error)
}

// Middleware gates HTTP requests on bearer-token validation. All handlers
// share one Middleware, constructed at startup around one shared verifier
// and key cache.
type Middleware struct {
	verifier TokenVerifier
	logger   Logger
	metrics  Metrics
	tracer   trace.Tracer
}

// NewMiddleware builds a Middleware. A nil logger or metrics falls back to a
// no-op implementation.
func NewMiddleware(verifier TokenVerifier, logger Logger, metrics Metrics) *Middleware {
	if logger == nil {
		logger = nopLogger{}
	}
	if metrics == nil {
		metrics = &NoopMetrics{}
	}
	return &Middleware{
		verifier: verifier,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer("stash-api/auth"),
	}
}

// RequireAuth rejects requests that do not carry a valid bearer token. Every
// rejection, including infrastructure failures like an unreachable key
// source, maps to the same generic unauthorized response: the precise reason
// goes to logs and metrics only, so a caller cannot probe which check
// failed, and a provider outage never degrades into allowing everyone.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.authenticate(r)
		if err != nil {
			kind := RejectionKind(err)
			m.logger.Warnf("authentication rejected (%s) for %s %s: %v", kind, r.Method, r.URL.Path, err)
			m.metrics.IncCounter("auth_rejections_total", map[string]string{"kind": kind})
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		m.metrics.IncCounter("auth_success_total", nil)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuth attaches a principal when the request carries a valid token
// and passes the request through anonymously otherwise. No failure, missing
// header included, surfaces to the client.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrMissingToken) {
				m.logger.Debugf("optional authentication failed (%s): %v", RejectionKind(err), err)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m *Middleware) authenticate(r *http.Request) (*Principal, error) {
	ctx, span := m.tracer.Start(r.Context(), "auth.validate")
	defer span.End()

	token, ok := ExtractBearerToken(r)
	if !ok {
		span.SetAttributes(attribute.String("auth.outcome", "missing_token"))
		return nil, ErrMissingToken
	}

	start := time.Now()
	principal, err := m.verifier.ValidateToken(ctx, token)
	m.metrics.ObserveHistogram("auth_validate_seconds", time.Since(start).Seconds(), nil)

	if err != nil {
		span.SetAttributes(attribute.String("auth.outcome", RejectionKind(err)))
		return nil, err
	}

	span.SetAttributes(attribute.String("auth.outcome", "ok"))
	return principal, nil
}
