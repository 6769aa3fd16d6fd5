// internal/app/features/execution/routes.go
package execution

import "github.com/go-chi/chi/v5"

// Routes returns the router for the assignee-facing task endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/{id}/toggle", h.ServeToggle)
	r.Patch("/{id}/progress", h.ServeProgress)
	return r
}
