package http

import (
	"net/http"

	"github.com/atinyakov/WargaKeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth      *AuthHandler
	Residents *ResidentHandler
	Health    *HealthHandler
	// Metrics serves the Prometheus exposition.
	Metrics http.Handler
	// Sessions verifies bearer tokens on /api routes.
	Sessions middleware.SessionParser
}

// NewRouter constructs and returns an HTTP handler that serves
// the registry API.
//
// Routes:
//
//	GET    /health               → Health.Health
//	GET    /metrics              → Metrics
//	POST   /api/register         → Auth.Register
//	POST   /api/login            → Auth.Login
//	POST   /api/logout           → Auth.Logout        (session)
//	GET    /api/session          → Auth.Session       (session)
//	GET    /api/residents        → Residents.List     (session)
//	POST   /api/residents        → Residents.Create   (session)
//	GET    /api/residents/{id}   → Residents.Get      (session)
//	PATCH  /api/residents/{id}   → Residents.Update   (admin session)
//	DELETE /api/residents/{id}   → Residents.Delete   (admin session)
//
// Middleware chain (applied in order):
//  1. RequestID and Recoverer
//  2. WithRequestLogging(logger)
//  3. AllowContentType("application/json"), for requests with a body
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		// Protected group: requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(h.Sessions))

			r.Post("/logout", h.Auth.Logout)
			r.Get("/session", h.Auth.Session)

			r.Route("/residents", func(r chi.Router) {
				r.Get("/", h.Residents.List)
				r.Post("/", h.Residents.Create)
				r.Get("/{id}", h.Residents.Get)

				r.With(middleware.RequireAdmin).Patch("/{id}", h.Residents.Update)
				r.With(middleware.RequireAdmin).Delete("/{id}", h.Residents.Delete)
			})
		})
	})

	return r
}
