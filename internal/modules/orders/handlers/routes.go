package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all order quantity routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/quantity", h.HandleQuantity)
	})
}
