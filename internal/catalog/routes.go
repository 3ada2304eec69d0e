package catalog

import "github.com/go-chi/chi/v5"

// Routes mounts the product and category endpoints.
func Routes(r chi.Router, h *Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.createProduct)
		r.Get("/", h.listProducts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.showProduct)
			r.Patch("/", h.updateProduct)
			r.Delete("/", h.deleteProduct)
		})
	})
	r.Route("/product-categories", func(r chi.Router) {
		r.Post("/", h.createCategory)
		r.Get("/", h.listCategories)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.showCategory)
			r.Patch("/", h.updateCategory)
			r.Delete("/", h.deleteCategory)
		})
	})
}
