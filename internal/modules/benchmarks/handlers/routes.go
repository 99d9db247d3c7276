package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all benchmark routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/benchmarks", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/{name}/run", h.HandleRun)
		r.Post("/{name}/enqueue", h.HandleEnqueue)
	})
}
