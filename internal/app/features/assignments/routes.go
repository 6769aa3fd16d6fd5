// internal/app/features/assignments/routes.go
package assignments

import "github.com/go-chi/chi/v5"

// Routes returns the router for assignment endpoints that are addressed by
// assignment id. Board-scoped endpoints (create, list, sync, publish) are
// registered under /boards/{boardID} in bootstrap so they share one URL
// parameter with the other board features.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Patch("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	return r
}
