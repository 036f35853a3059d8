package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/emernav/backend/internal/application/services"
	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/infrastructure/observability"
	apperrors "github.com/emernav/backend/pkg/errors"
)

// SearchHandler handles assessment search endpoints.
type SearchHandler struct {
	service *services.TriageSearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *services.TriageSearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchRequestBody is the POST /api/v1/search payload.
type searchRequestBody struct {
	Patient *entities.PatientProfile `json:"patient"`
	Origin  *entities.Coordinate     `json:"origin"`
}

// Search handles POST /api/v1/search: classify the patient, run the
// progressive facility search, and return the ranked outcome.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var body searchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Patient == nil {
		respondWithError(w, http.StatusBadRequest, "patient profile is required")
		return
	}

	var origin entities.Coordinate
	if body.Origin != nil {
		origin = *body.Origin
	}

	outcome, err := h.service.Search(r.Context(), services.SearchRequest{
		Profile: body.Patient,
		Origin:  origin,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":          outcome.SessionID,
		"facilities":         outcome.Facilities,
		"count":              len(outcome.Facilities),
		"reasoning":          outcome.Reasoning,
		"classifierFallback": outcome.ClassifierFallback,
		"registryDegraded":   outcome.RegistryDegraded,
		"filter":             outcome.Filter,
		"progress":           outcome.Progress,
	})
}

func (h *SearchHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeMissingLocation:
			respondWithError(w, http.StatusUnprocessableEntity, appErr.Message)
			return
		case apperrors.ErrorTypeRegistryUnavailable:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
			return
		}
	}

	observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("search failed")
	respondWithError(w, http.StatusInternalServerError, "search failed")
}
