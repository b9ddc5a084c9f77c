package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/handlers"
)

func init() { Register(registerProbes) }

// Probes stay open: orchestrators call them from outside the operator CIDRs.
func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
}
