package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/mw"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
)

func init() { Register(registerOperator) }

func registerOperator(r chi.Router, d deps.Deps) {
	ops := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	ops.Get("/infra", handlers.Infra(d))
	ops.Method("GET", "/metrics", metrics.Handler())
	ops.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
}
