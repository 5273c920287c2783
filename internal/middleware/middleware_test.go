package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/services"
)

type stubGate struct {
	account *models.Account
	err     error
	seen    string
}

func (g *stubGate) Authenticate(_ context.Context, token string) (*models.Account, error) {
	g.seen = token
	return g.account, g.err
}

func okHandler(t *testing.T, wantAccount bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantAccount, AccountFrom(r.Context()) != nil)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestIdentity(t *testing.T) {
	account := &models.Account{ID: uuid.New(), Role: models.RoleUser}

	t.Run("anonymous passes", func(t *testing.T) {
		gate := &stubGate{}
		rec := httptest.NewRecorder()
		Identity(gate)(okHandler(t, false)).ServeHTTP(rec, httptest.NewRequest("GET", "/api/posts", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, gate.seen)
	})

	t.Run("bearer header", func(t *testing.T) {
		gate := &stubGate{account: account}
		req := httptest.NewRequest("GET", "/api/posts", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		Identity(gate)(okHandler(t, true)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "abc", gate.seen)
	})

	t.Run("query token", func(t *testing.T) {
		gate := &stubGate{account: account}
		rec := httptest.NewRecorder()
		Identity(gate)(okHandler(t, true)).ServeHTTP(rec, httptest.NewRequest("GET", "/ws/notifications?token=xyz", nil))
		assert.Equal(t, "xyz", gate.seen)
	})

	var tests = []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"invalid", services.ErrUnauthenticated, http.StatusUnauthorized, "Invalid token"},
		{"unknown", services.ErrAccountNotFound, http.StatusUnauthorized, "User not found"},
		{"banned", services.ErrAccountBanned, http.StatusForbidden, "Your account has been banned."},
		{"temp banned", &services.TemporarilyBannedError{Until: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}, http.StatusForbidden, "You are temporarily banned until Fri, 02 Jan 2026 03:04:05 UTC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/posts", nil)
			req.Header.Set("Authorization", "Bearer abc")
			rec := httptest.NewRecorder()
			Identity(&stubGate{err: tc.err})(okHandler(t, true)).ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestRequireIdentityAndAdmin(t *testing.T) {
	user := &models.Account{ID: uuid.New(), Role: models.RoleUser}
	admin := &models.Account{ID: uuid.New(), Role: models.RoleAdmin}

	serve := func(h http.Handler, a *models.Account) int {
		req := httptest.NewRequest("GET", "/", nil)
		if a != nil {
			req = req.WithContext(WithAccount(req.Context(), a))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(RequireIdentity(okHandler(t, true)), nil))
	assert.Equal(t, http.StatusNoContent, serve(RequireIdentity(okHandler(t, true)), user))

	assert.Equal(t, http.StatusUnauthorized, serve(RequireAdmin(okHandler(t, true)), nil))
	assert.Equal(t, http.StatusForbidden, serve(RequireAdmin(okHandler(t, true)), user))
	assert.Equal(t, http.StatusNoContent, serve(RequireAdmin(okHandler(t, true)), admin))
}

func TestKeyedLimiters(t *testing.T) {
	limiters := newKeyedLimiters(rate.Every(time.Hour), 2)

	assert.True(t, limiters.allow("a"))
	assert.True(t, limiters.allow("a"))
	assert.False(t, limiters.allow("a"))
	assert.True(t, limiters.allow("b"))
}

func TestEntryRateLimitOnlyCoversEntryPaths(t *testing.T) {
	h := EntryRateLimit(okHandler(t, false))
	serve := func(path, addr string) int {
		req := httptest.NewRequest("POST", path, nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusNoContent, serve("/api/auth/anonymous", "192.0.2.10:1000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, serve("/api/auth/anonymous", "192.0.2.10:1001"))
	assert.Equal(t, http.StatusNoContent, serve("/api/posts", "192.0.2.10:1002"))
	assert.Equal(t, http.StatusNoContent, serve("/api/auth/anonymous", "192.0.2.11:1000"))
}

func TestWriteRateLimitPerAccount(t *testing.T) {
	h := WriteRateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	a := &models.Account{ID: uuid.New()}

	serve := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/reports", nil)
		req = req.WithContext(WithAccount(req.Context(), a))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < writeAccountBurst; i++ {
		require.Equal(t, http.StatusNoContent, serve("POST").Code)
	}
	rec := serve("POST")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// Reads are never throttled here.
	assert.Equal(t, http.StatusNoContent, serve("GET").Code)
}

func TestSecurityHeadersAndHostCheck(t *testing.T) {
	h := SecurityHeaders(HostCheck("api.example.org")(okHandler(t, false)))

	req := httptest.NewRequest("GET", "http://api.example.org:8080/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	req = httptest.NewRequest("GET", "http://evil.example.net/health", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
