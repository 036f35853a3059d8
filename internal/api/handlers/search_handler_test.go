package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emernav/backend/internal/adapters/classifier"
	"github.com/emernav/backend/internal/application/services"
	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRegistry returns a fixed record set for every query.
type stubRegistry struct {
	records []entities.FacilityRecord
}

func (s *stubRegistry) Search(_ context.Context, _ providers.FacilityQuery) ([]entities.FacilityRecord, error) {
	return s.records, nil
}

func newTestHandler(records []entities.FacilityRecord) *SearchHandler {
	search := services.NewProgressiveSearchService(&stubRegistry{records: records}, nil, &config.SearchConfig{
		InitialRadiusKm:  10,
		ExtendedRadiusKm: 20,
		MinResults:       10,
	})
	scoring := services.NewScoringService(&config.ScoringConfig{DistanceWeight: 1.0, BedWeight: 0.5})
	assembly := services.NewAssemblyService(nil, &config.GeocoderConfig{MinCallIntervalMs: 1}, &config.ScoringConfig{DisplayLimit: 20})
	service := services.NewTriageSearchService(nil, classifier.NewRuleBased(), search, scoring, assembly)
	return NewSearchHandler(service)
}

func usable(v int) *int { return &v }

func sampleRecords() []entities.FacilityRecord {
	return []entities.FacilityRecord{{
		ID:         "F1",
		Name:       "Riverside Medical Center",
		TierCode:   entities.TierRegional,
		DistanceKm: 2.5,
		Bed: map[string]entities.AvailabilityElement{
			entities.CodeGenericBed: {AvailableLevel: entities.LevelAvailable, Usable: usable(4)},
		},
	}}
}

func postSearch(t *testing.T, handler *SearchHandler, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.Search(recorder, req)
	return recorder
}

func TestSearchHandler_Success(t *testing.T) {
	handler := newTestHandler(sampleRecords())

	recorder := postSearch(t, handler, map[string]interface{}{
		"patient": map[string]interface{}{
			"severityTier":     2,
			"primaryCondition": "chest pain",
		},
		"origin": map[string]float64{"lat": 37.5, "lng": 127.0},
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response["sessionId"])
	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, true, response["classifierFallback"])
}

func TestSearchHandler_MissingPatient(t *testing.T) {
	handler := newTestHandler(nil)

	recorder := postSearch(t, handler, map[string]interface{}{
		"origin": map[string]float64{"lat": 37.5, "lng": 127.0},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSearchHandler_InvalidProfile(t *testing.T) {
	handler := newTestHandler(nil)

	recorder := postSearch(t, handler, map[string]interface{}{
		"patient": map[string]interface{}{
			"severityTier":     0,
			"primaryCondition": "chest pain",
		},
		"origin": map[string]float64{"lat": 37.5, "lng": 127.0},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSearchHandler_MissingOrigin(t *testing.T) {
	handler := newTestHandler(nil)

	recorder := postSearch(t, handler, map[string]interface{}{
		"patient": map[string]interface{}{
			"severityTier":     2,
			"primaryCondition": "chest pain",
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestSearchHandler_MalformedBody(t *testing.T) {
	handler := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte("{")))
	recorder := httptest.NewRecorder()
	handler.Search(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestVocabularyHandler_List(t *testing.T) {
	handler := NewVocabularyHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/capabilities", nil)
	recorder := httptest.NewRecorder()
	handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string][]map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response["bedCategory"], 9)
	assert.Len(t, response["admissionCategory"], 28)
	assert.Len(t, response["severeConditionCategory"], 27)
	assert.Len(t, response["equipmentCategory"], 10)
}
