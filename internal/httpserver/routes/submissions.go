package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/mw"
)

func init() { Register(registerSubmissions) }

func registerSubmissions(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Name:              "submissions",
		Burst:             d.SubmitBurst,
		RefillPerIPPerMin: d.SubmitPerMin,
		MaxEntries:        10000,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
		Logger:            d.Logger,
	})
	r.With(limit).Post("/api/submissions", handlers.Submit(d))
}
