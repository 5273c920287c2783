package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/safespace-backend/pkg/clientip"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerReferrerPolicy          = "Referrer-Policy"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerReferrerPolicy, "no-referrer")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost.
// allowedHost is the bare hostname without scheme or port; empty disables the check.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// keyedLimiters hands out one token bucket per key and forgets keys that
// have been idle for limiterTTL.
type keyedLimiters struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	entries map[string]*limiterEntry
	cleanup sync.Once
}

func newKeyedLimiters(limit rate.Limit, burst int) *keyedLimiters {
	return &keyedLimiters{limit: limit, burst: burst, entries: make(map[string]*limiterEntry)}
}

func (k *keyedLimiters) get(key string) *rate.Limiter {
	k.cleanup.Do(func() { go k.sweep() })

	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (k *keyedLimiters) allow(key string) bool {
	return k.get(key).Allow()
}

func (k *keyedLimiters) sweep() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		k.mu.Lock()
		now := time.Now()
		for key, e := range k.entries {
			if now.Sub(e.lastUse) > limiterTTL {
				delete(k.entries, key)
			}
		}
		k.mu.Unlock()
	}
}

// --- Global rate limiting (per-IP, 5/s, burst 20) ---

var globalLimiters = newKeyedLimiters(rate.Limit(5), 20)

// GlobalRateLimit limits each client network. Returns 429 when exceeded.
func GlobalRateLimit(next http.Handler) http.Handler {
	return rateLimitBy(globalLimiters, "Too many requests, please try again later.")(next)
}

// --- Entry route rate limiting (1 req/5s, burst 3) ---

var entryLimiters = newKeyedLimiters(rate.Every(5*time.Second), 3)

var entryPaths = map[string]bool{
	"/api/auth/anonymous":    true,
	"/api/auth/admin/signin": true,
}

// EntryRateLimit applies a stricter limit to account creation and sign-in.
// Use after GlobalRateLimit.
func EntryRateLimit(next http.Handler) http.Handler {
	limited := rateLimitBy(entryLimiters, "Too many sign-in attempts. Please try again later.")(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !entryPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func rateLimitBy(limiters *keyedLimiters, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(clientip.RateLimitKey(r)) {
				writeJSONError(w, http.StatusTooManyRequests, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ProductionSecurity returns middlewares for production: SecurityHeaders → HostCheck → GlobalRateLimit → EntryRateLimit.
func ProductionSecurity(allowedHost string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(allowedHost),
		GlobalRateLimit,
		EntryRateLimit,
	}
}
