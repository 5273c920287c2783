package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/safespace-backend/pkg/clientip"
)

// Write rate limit: per caller, on mutating API requests.
// Accounts: 30 req/min, burst 10. Anonymous callers: 10 req/min, burst 5,
// keyed by network since they have no stable identity.

const (
	writeAccountRPS   = 0.5
	writeAccountBurst = 10
	writeAnonRPS      = 0.17
	writeAnonBurst    = 5
)

var (
	writeAccountLimiters = newKeyedLimiters(rate.Limit(writeAccountRPS), writeAccountBurst)
	writeAnonLimiters    = newKeyedLimiters(rate.Limit(writeAnonRPS), writeAnonBurst)
)

func isWrite(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return strings.HasPrefix(r.URL.Path, "/api/") && !entryPaths[r.URL.Path]
	}
	return false
}

// WriteRateLimit throttles posts, comments, reactions and reports per
// account. Use after Identity. Returns 429 with rate limit headers when exceeded.
func WriteRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isWrite(r) {
			next.ServeHTTP(w, r)
			return
		}

		limiters, key, limit := writeAnonLimiters, "anon:"+clientip.RateLimitKey(r), writeAnonBurst
		if account := AccountFrom(r.Context()); account != nil {
			limiters, key, limit = writeAccountLimiters, "account:"+account.ID.String(), writeAccountBurst
		}

		limiter := limiters.get(key)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		if !limiter.Allow() {
			w.Header().Set("X-RateLimit-Remaining", "0")
			writeJSONError(w, http.StatusTooManyRequests, "You are doing that too often. Please slow down.")
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(limiter.Tokens()), 0)))
		next.ServeHTTP(w, r)
	})
}
