// internal/app/features/campaigns/routes.go
package campaigns

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /campaigns.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/peer-availability", h.ServePeerAvailability)
	r.Post("/launch", h.ServeLaunch)
	r.Get("/{id}/assignments", h.ServeAssignments)
	return r
}
