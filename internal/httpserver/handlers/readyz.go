package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready        bool `json:"ready"`
	Competitions int  `json:"competitions"`
}

// Readyz reports ready once a catalog snapshot with at least one record is served.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Index.Count()
		status := http.StatusOK
		if count == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, d.Logger, status, readyzResponse{
			Ready:        count > 0,
			Competitions: count,
		})
	}
}
