package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all factoring routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/factoring", func(r chi.Router) {
		r.Post("/factor", h.HandleFactor)
		r.Get("/trial", h.HandleTrialDivision)
		r.Get("/order", h.HandleOrder)
	})
}
