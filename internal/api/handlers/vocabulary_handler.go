package handlers

import (
	"net/http"

	"github.com/emernav/backend/internal/domain/entities"
)

// VocabularyHandler serves the capability code vocabulary.
type VocabularyHandler struct{}

// NewVocabularyHandler creates a new vocabulary handler.
func NewVocabularyHandler() *VocabularyHandler {
	return &VocabularyHandler{}
}

type vocabularyEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// List handles GET /api/v1/capabilities: the closed code vocabulary by
// category, for building filter UIs.
func (h *VocabularyHandler) List(w http.ResponseWriter, _ *http.Request) {
	categories := []entities.CapabilityCategory{
		entities.CategoryBed,
		entities.CategoryAdmission,
		entities.CategorySevereCondition,
		entities.CategoryEquipment,
	}

	payload := make(map[string][]vocabularyEntry, len(categories))
	for _, category := range categories {
		codes := entities.VocabularyCodes(category)
		entries := make([]vocabularyEntry, 0, len(codes))
		for _, code := range codes {
			entries = append(entries, vocabularyEntry{Code: code, Name: entities.CodeName(code)})
		}
		payload[string(category)] = entries
	}

	respondWithJSON(w, http.StatusOK, payload)
}
