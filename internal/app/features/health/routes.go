// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Register attaches the liveness and health endpoints. The root path
// doubles as a liveness response because the original deployments answered
// "OK" there and existing monitors still expect it.
func Register(r chi.Router, h *Handler) {
	r.Get("/ok", h.Live)
	r.Get("/", h.Live)
	r.Get("/health", h.Serve)
}
