package activities

import "github.com/go-chi/chi/v5"

// Routes mounts the activity endpoints.
func Routes(r chi.Router, h *Handler) {
	r.Route("/activities", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.show)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
		})
	})
}
