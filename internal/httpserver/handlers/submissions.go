package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
)

type submissionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Submit validates a proposed competition and acknowledges it for review.
// Accepted submissions are logged only; the catalog file stays the source of truth.
func Submit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub domain.Submission
		if err := decodeJSON(w, r, &sub); err != nil {
			metrics.Submissions.WithLabelValues("malformed").Inc()
			writeDomainError(w, d.Logger, err)
			return
		}
		if err := sub.Validate(); err != nil {
			metrics.Submissions.WithLabelValues("rejected").Inc()
			writeDomainError(w, d.Logger, err)
			return
		}

		id := uuid.NewString()
		metrics.Submissions.WithLabelValues("accepted").Inc()
		d.Logger.Info("competition submitted",
			logger.String("submission", id),
			logger.String("title", sub.Title),
			logger.String("organizer", sub.Organizer),
			logger.String("category", sub.Category),
			logger.String("registration_end", sub.RegistrationEnd))

		writeJSON(w, d.Logger, http.StatusAccepted, submissionResponse{
			ID:     id,
			Status: "pending_review",
		})
	}
}
