package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the UserNotepad API under /api.
//
// Routes:
//
//	POST   /api/register      → authHandler.Register
//	POST   /api/login         → authHandler.Login
//	GET    /api/me            → authHandler.Me          (session required)
//	GET    /api/users         → userHandler.List        (session required)
//	POST   /api/users         → userHandler.Create      (session required)
//	GET    /api/users/report  → userHandler.Report      (session required)
//	GET    /api/users/{id}    → userHandler.Get         (session required)
//	PUT    /api/users/{id}    → userHandler.Update      (session required)
//	DELETE /api/users/{id}    → userHandler.Delete      (session required)
//
// Middleware chain (applied in order):
//  1. CORS for the configured browser origins
//  2. RequestID and Recoverer
//  3. AllowContentType("application/json") for requests with a body
//  4. WithRequestLogging(logger)
//  5. JWTAuth on the protected group
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	tokens middleware.TokenParser,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Location"},
		MaxAge:         300,
	}))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(tokens, logger))

			r.Get("/me", authHandler.Me)
			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Get("/report", userHandler.Report)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})
		})
	})

	return r
}
