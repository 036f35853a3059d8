package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/pkg/config"
	apperrors "github.com/emernav/backend/pkg/errors"
)

const (
	searchPath = "/api/v1/search/detail/general"

	// The registry is always queried across all three facility tiers;
	// tier preference is expressed in scoring, not filtering.
	allTiers = "A,C,D"
)

// HTTPClient implements providers.FacilityRegistry against the
// facility-availability registry's REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new registry client from configuration.
func NewClient(cfg *config.RegistryConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewClientWithOptions(cfg.BaseURL, &http.Client{Timeout: timeout})
}

// NewClientWithOptions allows overriding the HTTP client (used for tests).
func NewClientWithOptions(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Search runs one radius query against the registry. Zero matches yield an
// empty list; transport failures and malformed envelopes yield a
// RegistryUnavailable error.
func (c *HTTPClient) Search(ctx context.Context, query providers.FacilityQuery) ([]entities.FacilityRecord, error) {
	params := url.Values{}
	params.Set("asort", allTiers)
	params.Set("searchCondition", "radius")
	params.Set("lat", strconv.FormatFloat(query.Origin.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(query.Origin.Lng, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(query.RadiusKm))

	setCodes(params, "rltmEmerCd", query.Filter.BedCategory)
	setCodes(params, "rltmCd", query.Filter.AdmissionCategory)
	setCodes(params, "svdssCd", query.Filter.SevereConditionCategory)
	setCodes(params, "rltmMeCd", query.Filter.EquipmentCategory)

	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewRegistryUnavailableError("failed to build registry request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewRegistryUnavailableError("registry request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewRegistryUnavailableError(
			fmt.Sprintf("registry returned status %d", resp.StatusCode), nil)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, apperrors.NewRegistryUnavailableError("failed to decode registry response", err)
	}

	// A response without the result envelope is a registry failure, not an
	// empty match set.
	if envelope.Result == nil {
		return nil, apperrors.NewRegistryUnavailableError(
			fmt.Sprintf("registry response missing result envelope: %s", envelope.Message), nil)
	}

	records := make([]entities.FacilityRecord, 0, len(envelope.Result.Data))
	for _, dto := range envelope.Result.Data {
		records = append(records, dto.toEntity())
	}
	return records, nil
}

func setCodes(params url.Values, key string, codes []string) {
	if len(codes) > 0 {
		params.Set(key, strings.Join(codes, ","))
	}
}
