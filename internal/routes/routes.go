package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AnshRaj112/safespace-backend/internal/handlers"
	"github.com/AnshRaj112/safespace-backend/internal/middleware"
)

// Options configures the router's middleware stack.
type Options struct {
	Gate           middleware.Authenticator
	Logger         zerolog.Logger
	AllowedOrigins []string
	Production     bool
	AllowedHost    string
	// Redis enables the cross-instance write limit when set.
	Redis redis.Cmdable
}

// NewRouter builds the full HTTP surface.
func NewRouter(h *handlers.Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	for _, mw := range middleware.RequestLogger(opts.Logger) {
		r.Use(mw)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → EntryRateLimit
	if opts.Production {
		for _, mw := range middleware.ProductionSecurity(opts.AllowedHost) {
			r.Use(mw)
		}
	} else {
		r.Use(middleware.EntryRateLimit)
	}

	// Health check and metrics (no identity)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Entry routes ignore any stale credential the client still sends
	r.Post("/api/auth/anonymous", h.EnterAnonymously)
	r.Post("/api/auth/admin/signin", h.AdminSignin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(opts.Gate))
		r.Use(middleware.WriteRateLimit)
		if opts.Redis != nil {
			r.Use(middleware.RedisRateLimit(opts.Redis))
		}
		SetupRoutes(r, h)
	})

	return r
}

// SetupRoutes registers the API. Identity must already be resolved.
func SetupRoutes(r chi.Router, h *handlers.Handler) {
	// Public reads; the viewer is optional
	r.Get("/api/posts", h.ListPosts)
	r.Get("/api/posts/{id}/comments", h.ListComments)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIdentity)

		r.Get("/api/auth/me", h.Me)

		r.Post("/api/posts", h.CreatePost)
		r.Get("/api/posts/mine", h.ListMyPosts)
		r.Post("/api/posts/{id}/reactions", h.ReactToPost)

		r.Post("/api/comments", h.CreateComment)
		r.Post("/api/comments/{id}/reactions", h.ReactToComment)

		r.Post("/api/reports", h.FileReport)

		r.Get("/api/notifications", h.ListNotifications)
		r.Patch("/api/notifications/{id}/read", h.MarkNotificationRead)
		r.Delete("/api/notifications/{id}", h.DeleteNotification)

		// Realtime notifications (Redis Pub/Sub fan-out)
		r.Get("/ws/notifications", h.NotificationsWebSocket)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Get("/posts/hidden", h.ListHiddenPosts)
		r.Put("/posts/{id}/restore", h.RestorePost)
		r.Delete("/posts/{id}", h.DeletePost)

		r.Get("/comments/hidden", h.ListHiddenComments)
		r.Put("/comments/{id}/restore", h.RestoreComment)
		r.Delete("/comments/{id}", h.DeleteComment)

		r.Put("/users/{id}/ban", h.BanUser)
		r.Put("/users/{id}/unban", h.UnbanUser)
		r.Put("/users/{id}/tempban", h.TempBanUser)
		r.Put("/users/{id}/readonly", h.SetReadOnly)
		r.Put("/users/{id}/remove-readonly", h.RemoveReadOnly)

		r.Get("/violations", h.GetViolations)
	})
}
