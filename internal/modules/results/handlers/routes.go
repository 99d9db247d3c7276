package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all run and job routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", h.HandleListRuns)
		r.Get("/{id}", h.HandleGetRun)
		r.Get("/{id}/payload", h.HandleGetRunPayload)
	})
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.HandleListJobs)
		r.Get("/{id}", h.HandleGetJob)
	})
}
