package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashkeep/stash-api/internal/jwks"
)

// stubVerifier returns a fixed outcome and records the token it was given.
type stubVerifier struct {
	principal *Principal
	err       error
	gotToken  string
}

func (s *stubVerifier) ValidateToken(_ context.Context, token string) (*Principal, error) {
	s.gotToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

// recordingMetrics captures counter increments for assertions.
type recordingMetrics struct {
	mu       sync.Mutex
	counters map[string]map[string]string
}

func (m *recordingMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]map[string]string)
	}
	m.counters[name] = tags
}

func (m *recordingMetrics) ObserveHistogram(string, float64, map[string]string) {}

func capturePrincipal(t *testing.T) (http.Handler, func() (*Principal, bool)) {
	t.Helper()
	var (
		principal *Principal
		ok        bool
		called    bool
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		principal, ok = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return handler, func() (*Principal, bool) {
		require.True(t, called, "inner handler was never reached")
		return principal, ok
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("attaches the principal on success", func(t *testing.T) {
		verifier := &stubVerifier{principal: &Principal{ID: "user-1"}}
		m := NewMiddleware(verifier, nil, nil)
		inner, saw := capturePrincipal(t)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Authorization", "Bearer some.signed.token")
		rec := httptest.NewRecorder()
		m.RequireAuth(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "some.signed.token", verifier.gotToken)
		principal, ok := saw()
		require.True(t, ok)
		assert.Equal(t, "user-1", principal.ID)
	})

	t.Run("rejects a missing token without reaching the handler", func(t *testing.T) {
		m := NewMiddleware(&stubVerifier{}, nil, nil)
		reached := false
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		rec := httptest.NewRecorder()
		m.RequireAuth(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("every rejection kind produces the same response", func(t *testing.T) {
		rejections := []error{
			ErrMalformedToken,
			ErrUnsupportedAlgorithm,
			ErrSignatureInvalid,
			ErrTokenExpired,
			ErrIssuerMismatch,
			ErrInvalidTokenUse,
			ErrInvalidAudience,
			ErrIssuerNotConfigured,
			jwks.ErrUnknownKeyID,
			jwks.ErrKeySourceUnavailable,
		}

		var bodies []string
		for _, rejection := range rejections {
			m := NewMiddleware(&stubVerifier{err: rejection}, nil, nil)
			req := httptest.NewRequest(http.MethodGet, "/items", nil)
			req.Header.Set("Authorization", "Bearer some.signed.token")
			rec := httptest.NewRecorder()
			m.RequireAuth(http.NewServeMux()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code, "rejection %v", rejection)
			bodies = append(bodies, rec.Body.String())
		}

		for _, body := range bodies {
			assert.Equal(t, bodies[0], body, "rejection responses must be indistinguishable")
		}

		var envelope struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(bodies[0]), &envelope))
		assert.False(t, envelope.Success)
		assert.Equal(t, "unauthorized", envelope.Error)
	})

	t.Run("counts rejections by kind", func(t *testing.T) {
		metrics := &recordingMetrics{}
		m := NewMiddleware(&stubVerifier{err: ErrTokenExpired}, nil, metrics)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Authorization", "Bearer some.signed.token")
		m.RequireAuth(http.NewServeMux()).ServeHTTP(httptest.NewRecorder(), req)

		tags, ok := metrics.counters["auth_rejections_total"]
		require.True(t, ok)
		assert.Equal(t, "expired", tags["kind"])
	})

	t.Run("a key source outage rejects rather than allows", func(t *testing.T) {
		m := NewMiddleware(&stubVerifier{err: jwks.ErrKeySourceUnavailable}, nil, nil)
		reached := false
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Authorization", "Bearer some.signed.token")
		rec := httptest.NewRecorder()
		m.RequireAuth(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("passes an anonymous request through", func(t *testing.T) {
		m := NewMiddleware(&stubVerifier{}, nil, nil)
		inner, saw := capturePrincipal(t)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		rec := httptest.NewRecorder()
		m.OptionalAuth(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		_, ok := saw()
		assert.False(t, ok)
	})

	t.Run("degrades an invalid token to anonymous", func(t *testing.T) {
		m := NewMiddleware(&stubVerifier{err: ErrSignatureInvalid}, nil, nil)
		inner, saw := capturePrincipal(t)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Authorization", "Bearer some.signed.token")
		rec := httptest.NewRecorder()
		m.OptionalAuth(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		_, ok := saw()
		assert.False(t, ok)
	})

	t.Run("attaches the principal when the token is valid", func(t *testing.T) {
		m := NewMiddleware(&stubVerifier{principal: &Principal{ID: "user-1"}}, nil, nil)
		inner, saw := capturePrincipal(t)

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("Authorization", "Bearer some.signed.token")
		rec := httptest.NewRecorder()
		m.OptionalAuth(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		principal, ok := saw()
		require.True(t, ok)
		assert.Equal(t, "user-1", principal.ID)
	})
}
