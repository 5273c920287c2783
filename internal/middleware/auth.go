package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/AnshRaj112/safespace-backend/internal/models"
	"github.com/AnshRaj112/safespace-backend/internal/services"
	"github.com/AnshRaj112/safespace-backend/pkg/clientip"
)

type ctxKey string

const accountKey ctxKey = "account"

// Authenticator resolves a bearer token to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

// WithAccount attaches the resolved caller to ctx.
func WithAccount(ctx context.Context, a *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// AccountFrom returns the resolved caller, or nil for anonymous requests.
func AccountFrom(ctx context.Context) *models.Account {
	a, _ := ctx.Value(accountKey).(*models.Account)
	return a
}

// BearerToken reads the credential from the Authorization header, falling back
// to the token query parameter that browser WebSocket clients have to use.
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// Identity resolves the caller when a credential is present. Requests without
// one pass through anonymously; a bad or banned credential is rejected.
func Identity(gate Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			account, err := gate.Authenticate(r.Context(), token)
			if err != nil {
				writeAuthError(w, r, err)
				return
			}

			ctx := WithAccount(r.Context(), account)
			ctx = services.WithClientIP(ctx, clientip.RealClientIP(r))
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("account_id", account.ID.String())
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects anonymous callers. Use after Identity.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if AccountFrom(r.Context()) == nil {
			writeAuthError(w, r, services.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without the admin role. Use after Identity.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := AccountFrom(r.Context())
		if account == nil {
			writeAuthError(w, r, services.ErrUnauthenticated)
			return
		}
		if err := services.RequireAdmin(account); err != nil {
			writeAuthError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var banned *services.TemporarilyBannedError
	switch {
	case errors.As(err, &banned):
		writeJSONError(w, http.StatusForbidden, fmt.Sprintf("You are temporarily banned until %s", banned.Until.UTC().Format(time.RFC1123)))
	case errors.Is(err, services.ErrAccountBanned):
		writeJSONError(w, http.StatusForbidden, "Your account has been banned.")
	case errors.Is(err, services.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "Admin access required.")
	case errors.Is(err, services.ErrAccountNotFound):
		writeJSONError(w, http.StatusUnauthorized, "User not found")
	case errors.Is(err, services.ErrUnauthenticated):
		if BearerToken(r) == "" {
			writeJSONError(w, http.StatusUnauthorized, "No token")
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "Invalid token")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("authentication failed")
		writeJSONError(w, http.StatusInternalServerError, "Authorization error.")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
