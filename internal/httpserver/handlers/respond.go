package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/listing"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/prefs"
	"github.com/MrSnakeDoc/lombahub/internal/session"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, status int, msg string) {
	writeJSON(w, log, status, errorResponse{Error: msg})
}

// writeDomainError maps the sentinel errors of the engine to HTTP statuses.
func writeDomainError(w http.ResponseWriter, log logger.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: "invalid submission", Fields: verr.Fields})
	case errors.Is(err, session.ErrNotFound):
		writeError(w, log, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrInvalidID),
		errors.Is(err, domain.ErrUnknownSortOption),
		errors.Is(err, prefs.ErrInvalidViewMode),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, errBadBody):
		writeError(w, log, http.StatusBadRequest, err.Error())
	case errors.Is(err, listing.ErrInvalidSelectionIndex):
		writeError(w, log, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error("request failed", logger.Error(err))
		writeError(w, log, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// decodeJSON reads a single JSON document from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

var errBadBody = errors.New("malformed request body")
