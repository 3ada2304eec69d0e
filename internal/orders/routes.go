package orders

import "github.com/go-chi/chi/v5"

// Routes mounts the order endpoints.
func Routes(r chi.Router, h *Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.show)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Patch("/status", h.updateStatus)
			r.Patch("/payment-status", h.updatePaymentStatus)
		})
	})
}
