package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all position sizing routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sizing", func(r chi.Router) {
		r.Post("/size", h.HandleSize)
	})
}
