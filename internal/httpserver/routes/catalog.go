package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/handlers"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	r.Get("/api/meta", handlers.Meta(d))
	r.Get("/api/competitions", handlers.Competitions(d))
	r.Get("/api/competitions/{id}", handlers.Competition(d))
	r.Get("/api/categories", handlers.Categories(d))
	r.Get("/api/categories/{name}/competitions", handlers.CategoryCompetitions(d))
	r.Get("/api/categories/{name}/tags", handlers.CategoryTags(d))
	r.Get("/api/institutions/{name}/competitions", handlers.InstitutionCompetitions(d))
}
