package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
)

type reloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload triggers a manual reload of the catalog file
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual catalog reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d.Logger, http.StatusAccepted, reloadResponse{
				Triggered: true,
				Message:   "✅ Reload triggered successfully",
			})
		default:
			d.Logger.Warn("catalog reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d.Logger, http.StatusTooManyRequests, reloadResponse{
				Message: "⏳ Reload already in progress, please wait",
			})
		}
	}
}
