package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all budget profile routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/budget/profiles", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
		})
	})
}
