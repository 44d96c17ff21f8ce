// internal/api/router.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"user-service/internal/api/handler"
	"user-service/internal/metrics"
)

// RouterConfig tunes the global middlewares.
type RouterConfig struct {
	// MaxConcurrentRequests bounds how many requests are served at once.
	MaxConcurrentRequests int
	// Requests beyond the limit wait in a backlog of this size for at most
	// BacklogTimeout before being rejected with 429.
	Backlog        int
	BacklogTimeout time.Duration
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(cfg RouterConfig, userHandler *handler.UserHandler, itemHandler *handler.ItemHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.ThrottleBacklog(cfg.MaxConcurrentRequests, cfg.Backlog, cfg.BacklogTimeout))
	r.Use(runToCompletion)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Get("/search", userHandler.SearchUsers)
		r.Post("/sign-up", userHandler.SignUp)
		r.Get("/{user_id}", userHandler.GetUser)
		r.Patch("/{user_id}", userHandler.UpdateUser)
		r.Delete("/{user_id}", userHandler.DeleteUser)
	})

	r.Get("/items/{item_name}", itemHandler.GetItem)

	logger.Debug("HTTP routes registered")
	return r
}

// runToCompletion detaches the request context from client disconnects, so a
// handler that has started always finishes its store work.
func runToCompletion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithoutCancel(r.Context())))
	})
}
