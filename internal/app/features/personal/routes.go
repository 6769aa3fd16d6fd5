// internal/app/features/personal/routes.go
package personal

import "github.com/go-chi/chi/v5"

// Routes returns the router for personal-mode assignment endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/assignments", h.ServeCreate)
	r.Patch("/assignments/{id}", h.ServeUpdate)
	r.Delete("/assignments/{id}", h.ServeDelete)
	return r
}
