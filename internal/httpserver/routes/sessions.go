package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/handlers"
)

func init() { Register(registerSessions) }

func registerSessions(r chi.Router, d deps.Deps) {
	r.Post("/api/sessions", handlers.CreateSession(d))
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Get("/", handlers.GetSession(d))
		r.Put("/search", handlers.SetSearch(d))
		r.Put("/filters", handlers.SetFilters(d))
		r.Delete("/filters", handlers.ClearFilters(d))
		r.Put("/sort", handlers.SetSort(d))
		r.Post("/more", handlers.LoadMore(d))
		r.Post("/reset", handlers.ResetSession(d))
		r.Put("/selection", handlers.Select(d))
		r.Delete("/selection", handlers.CloseSelection(d))
		r.Post("/selection/previous", handlers.PreviousSelection(d))
		r.Post("/selection/next", handlers.NextSelection(d))
		r.Put("/view-mode", handlers.SetViewMode(d))
		r.Get("/bookmarks", handlers.Bookmarks(d))
		r.Post("/bookmarks/{competitionID}", handlers.ToggleBookmark(d))
	})
}
