package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	apperrors "github.com/emernav/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuery() providers.FacilityQuery {
	return providers.FacilityQuery{
		Origin:   entities.Coordinate{Lat: 37.5665, Lng: 126.978},
		RadiusKm: 10,
		Filter: entities.CapabilityFilterRequest{
			BedCategory:             []string{"O001", "O002"},
			SevereConditionCategory: []string{"Y0010"},
		},
	}
}

func TestSearch_BuildsQueryParameters(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		assert.Equal(t, "/api/v1/search/detail/general", r.URL.Path)
		w.Write([]byte(`{"message":"ok","result":{"data":[]}}`))
	}))
	defer server.Close()

	client := NewClientWithOptions(server.URL, server.Client())
	_, err := client.Search(context.Background(), testQuery())

	require.NoError(t, err)
	assert.Equal(t, "A,C,D", captured.Get("asort"))
	assert.Equal(t, "radius", captured.Get("searchCondition"))
	assert.Equal(t, "37.5665", captured.Get("lat"))
	assert.Equal(t, "126.978", captured.Get("lon"))
	assert.Equal(t, "10", captured.Get("radius"))
	assert.Equal(t, "O001,O002", captured.Get("rltmEmerCd"))
	assert.Equal(t, "Y0010", captured.Get("svdssCd"))
	assert.False(t, captured.Has("rltmCd"), "empty categories must not be sent")
	assert.False(t, captured.Has("rltmMeCd"), "empty categories must not be sent")
}

func TestSearch_MapsFacilityRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"message": "ok",
			"result": {
				"data": [{
					"code": "E2200001",
					"name": "Riverside Medical Center",
					"address": "12 Riverside Ave",
					"wiredHotline": "02-1234-5678",
					"typeCode": "A",
					"distance": 3.4,
					"rltmEmerCd": {
						"elements": {
							"O001": {"availableLevel": "Y", "usable": 5, "total": 20}
						}
					},
					"svdssCd": {
						"elements": {
							"Y0010": {"availableLevel": "N"}
						}
					},
					"erMessages": [{"message": "CT under maintenance"}]
				}]
			}
		}`))
	}))
	defer server.Close()

	client := NewClientWithOptions(server.URL, server.Client())
	records, err := client.Search(context.Background(), testQuery())

	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "E2200001", record.ID)
	assert.Equal(t, "Riverside Medical Center", record.Name)
	assert.Equal(t, "A", record.TierCode)
	assert.Equal(t, 3.4, record.DistanceKm)

	bed, ok := record.Bed["O001"]
	require.True(t, ok)
	assert.Equal(t, entities.LevelAvailable, bed.AvailableLevel)
	require.NotNil(t, bed.Usable)
	assert.Equal(t, 5, *bed.Usable)

	severe, ok := record.SevereCondition["Y0010"]
	require.True(t, ok)
	assert.Equal(t, entities.LevelUnavailable, severe.AvailableLevel)

	require.Len(t, record.Notices, 1)
	assert.Equal(t, "CT under maintenance", record.Notices[0].Message)
}

func TestSearch_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message":"ok","result":{"data":[]}}`))
	}))
	defer server.Close()

	client := NewClientWithOptions(server.URL, server.Client())
	records, err := client.Search(context.Background(), testQuery())

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_MissingResultEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message":"internal error"}`))
	}))
	defer server.Close()

	client := NewClientWithOptions(server.URL, server.Client())
	_, err := client.Search(context.Background(), testQuery())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRegistryUnavailable))
}

func TestSearch_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClientWithOptions(server.URL, server.Client())
	_, err := client.Search(context.Background(), testQuery())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRegistryUnavailable))
}

func TestSearch_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message":`))
	}))
	defer server.Close()

	client := NewClientWithOptions(server.URL, server.Client())
	_, err := client.Search(context.Background(), testQuery())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRegistryUnavailable))
}
