package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all risk routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Route("/positions", func(r chi.Router) {
			r.Get("/", h.HandleListPositions)
			r.Post("/", h.HandleCreatePosition)

			r.Route("/{symbol}", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, r *http.Request) {
					h.HandleGetPosition(w, r, chi.URLParam(r, "symbol"))
				})
				r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
					h.HandleRemovePosition(w, r, chi.URLParam(r, "symbol"))
				})
				r.Post("/price", func(w http.ResponseWriter, r *http.Request) {
					h.HandlePriceUpdate(w, r, chi.URLParam(r, "symbol"))
				})
			})
		})

		r.Get("/portfolio", h.HandlePortfolio)
		r.Get("/snapshots", h.HandleSnapshotHistory)
	})
}
