package leads

import (
	"github.com/go-chi/chi/v5"
)

// Routes registers lead routes on the router.
func Routes(r chi.Router, h *Handler) {
	r.Post("/leads", h.create)
	r.Get("/leads", h.list)
	r.Get("/leads/{id}", h.show)
	r.Put("/leads/{id}", h.update)
	r.Delete("/leads/{id}", h.delete)
	r.Post("/leads/{id}/convert", h.convert)
}
