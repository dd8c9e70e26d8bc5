package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"passkey-wallet-gateway/internal/health"
)

// Routes wires the wallet API and the health endpoints onto one router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", health.LivenessHandler)
	r.Get("/readyz", health.ReadinessHandler)

	r.Route("/api/wallet/{mode}", func(r chi.Router) {
		r.Post("/connect", h.Connect)
		r.Post("/disconnect", h.Disconnect)
		r.Get("/balance", h.Balance)
		r.Get("/status", h.Status)
		r.Post("/transfer", h.Transfer)
	})

	return r
}
