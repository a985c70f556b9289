package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/contacts-api/internal/api"
	apiMiddleware "github.com/phrazzld/contacts-api/internal/api/middleware"
	"github.com/phrazzld/contacts-api/internal/config"
	"github.com/phrazzld/contacts-api/internal/platform/metrics"
)

// routerDeps are the collaborators the HTTP layer needs.
type routerDeps struct {
	logger         *slog.Logger
	auth           api.AuthService
	contacts       api.ContactService
	metrics        *metrics.Metrics
	rateLimit      config.RateLimitConfig
	corsOrigins    []string
	maxUploadBytes int64
	health         func(ctx context.Context) error
}

// newRouter registers every route with its middleware chain.
func newRouter(deps routerDeps) http.Handler {
	if deps.logger == nil {
		deps.logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(deps.corsOrigins) > 0 {
		r.Use(apiMiddleware.NewCORS(deps.corsOrigins))
	}
	r.Use(middleware.StripSlashes)
	r.Use(apiMiddleware.NewTraceMiddleware(deps.logger))
	if deps.metrics != nil {
		r.Use(apiMiddleware.NewMetricsMiddleware(deps.metrics))
	}

	authHandler := api.NewAuthHandler(deps.auth, deps.maxUploadBytes)
	contactHandler := api.NewContactHandler(deps.contacts)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.auth)

	r.Group(func(r chi.Router) {
		if deps.rateLimit.Enabled {
			window := time.Duration(deps.rateLimit.WindowSeconds) * time.Second
			r.Use(apiMiddleware.NewRateLimiter(deps.rateLimit.Requests, window))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify", authHandler.VerifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/users/me", authHandler.Me)
				r.Post("/upload-avatar", authHandler.UploadAvatar)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", contactHandler.List)
			r.Post("/", contactHandler.Create)
			r.Get("/search", contactHandler.Search)
			r.Get("/upcoming-birthdays", contactHandler.UpcomingBirthdays)
			r.Get("/{id}", contactHandler.Get)
			r.Put("/{id}", contactHandler.Update)
			r.Delete("/{id}", contactHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.health != nil {
			if err := deps.health(r.Context()); err != nil {
				deps.logger.Error("health check failed", slog.String("error", err.Error()))
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	if deps.metrics != nil {
		r.Handle("/metrics", deps.metrics.Handler())
	}

	return r
}
