package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/internal/infrastructure/observability"
	"github.com/emernav/backend/pkg/config"
	apperrors "github.com/emernav/backend/pkg/errors"
	"github.com/emernav/backend/pkg/retry"
	"github.com/rs/zerolog"
)

// Service-area bounding box. Coordinates outside it are geocoder noise,
// not usable facility positions.
const (
	minLatitude  = 33.0
	maxLatitude  = 38.7
	minLongitude = 124.5
	maxLongitude = 132.0
)

const coordinateCacheTTL = 7 * 24 * time.Hour

// VWorldProvider resolves street addresses to coordinates through the
// VWorld address API. Successful resolutions are cached; the cache is
// optional and failures to reach it are ignored.
type VWorldProvider struct {
	baseURL    string
	apiKey     string
	domain     string
	httpClient *http.Client
	cache      providers.CacheProvider
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewVWorldProvider creates a VWorld-backed coordinate resolver.
func NewVWorldProvider(cfg *config.GeocoderConfig, cache providers.CacheProvider, metrics *observability.Metrics, logger zerolog.Logger) (*VWorldProvider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("geocoder api key is required")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &VWorldProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		domain:  cfg.Domain,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:   cache,
		metrics: metrics,
		logger:  logger.With().Str("component", "vworld_geocoder").Logger(),
	}, nil
}

type vworldEnvelope struct {
	Response vworldResponse `json:"response"`
}

type vworldResponse struct {
	Status string        `json:"status"`
	Result *vworldResult `json:"result"`
	Error  *vworldError  `json:"error"`
}

type vworldError struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type vworldResult struct {
	Point vworldPoint `json:"point"`
	Text  string      `json:"text"`
}

type vworldPoint struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// Resolve geocodes one address. Transient failures are retried with linear
// backoff; a response outside the service bounding box is rejected.
func (p *VWorldProvider) Resolve(ctx context.Context, address string) (*providers.ResolvedAddress, error) {
	refined := RefineAddress(address)
	if refined == "" {
		return nil, apperrors.NewResolutionFailedError("address is empty after refinement", nil)
	}

	if cached := p.cachedCoordinate(ctx, refined); cached != nil {
		return cached, nil
	}

	var resolved *providers.ResolvedAddress
	err := retry.Do(ctx, retry.GeocoderConfig(), func() error {
		result, callErr := p.resolveOnce(ctx, refined)
		if callErr != nil {
			return callErr
		}
		resolved = result
		return nil
	})
	if err != nil {
		return nil, apperrors.NewResolutionFailedError(
			fmt.Sprintf("could not resolve address %q", refined), err)
	}

	p.storeCoordinate(ctx, refined, resolved)
	return resolved, nil
}

func (p *VWorldProvider) resolveOnce(ctx context.Context, address string) (*providers.ResolvedAddress, error) {
	params := url.Values{}
	params.Set("service", "address")
	params.Set("request", "getcoord")
	params.Set("version", "2.0")
	params.Set("crs", "epsg:4326")
	params.Set("type", "road")
	params.Set("address", address)
	params.Set("format", "json")
	params.Set("key", p.apiKey)
	if p.domain != "" {
		params.Set("domain", p.domain)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var envelope vworldEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	if envelope.Response.Status != "OK" || envelope.Response.Result == nil {
		if envelope.Response.Error != nil {
			return nil, fmt.Errorf("geocoder rejected address: %s (%s)",
				envelope.Response.Error.Text, envelope.Response.Error.Code)
		}
		return nil, fmt.Errorf("geocoder status %q with no result", envelope.Response.Status)
	}

	lng, err := strconv.ParseFloat(envelope.Response.Result.Point.X, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", envelope.Response.Result.Point.X, err)
	}
	lat, err := strconv.ParseFloat(envelope.Response.Result.Point.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", envelope.Response.Result.Point.Y, err)
	}

	coord := entities.Coordinate{Lat: lat, Lng: lng}
	if !withinServiceArea(coord) {
		return nil, fmt.Errorf("coordinate (%.5f, %.5f) outside service area", lat, lng)
	}

	refinedText := envelope.Response.Result.Text
	if refinedText == "" {
		refinedText = address
	}

	return &providers.ResolvedAddress{
		Coordinate:     coord,
		RefinedAddress: refinedText,
	}, nil
}

func withinServiceArea(c entities.Coordinate) bool {
	return c.Lat >= minLatitude && c.Lat <= maxLatitude &&
		c.Lng >= minLongitude && c.Lng <= maxLongitude
}

func coordinateCacheKey(address string) string {
	return "geocode:" + address
}

func (p *VWorldProvider) cachedCoordinate(ctx context.Context, address string) *providers.ResolvedAddress {
	if p.cache == nil {
		return nil
	}

	data, err := p.cache.Get(ctx, coordinateCacheKey(address))
	if err != nil || data == nil {
		if p.metrics != nil {
			observability.RecordCacheMiss(ctx, p.metrics, "geocode")
		}
		return nil
	}
	if p.metrics != nil {
		observability.RecordCacheHit(ctx, p.metrics, "geocode")
	}

	var resolved providers.ResolvedAddress
	if err := json.Unmarshal(data, &resolved); err != nil {
		p.logger.Warn().Err(err).Str("address", address).Msg("discarding malformed cached coordinate")
		_ = p.cache.Delete(ctx, coordinateCacheKey(address))
		return nil
	}
	if !resolved.Coordinate.Valid() {
		return nil
	}
	return &resolved
}

func (p *VWorldProvider) storeCoordinate(ctx context.Context, address string, resolved *providers.ResolvedAddress) {
	if p.cache == nil || resolved == nil {
		return
	}

	data, err := json.Marshal(resolved)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, coordinateCacheKey(address), data, coordinateCacheTTL); err != nil {
		p.logger.Warn().Err(err).Str("address", address).Msg("failed to cache coordinate")
	}
}

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// RefineAddress strips annotations that confuse the geocoder: trailing
// parentheticals (building names, floor hints) and redundant whitespace.
func RefineAddress(address string) string {
	refined := parentheticalPattern.ReplaceAllString(address, " ")
	if idx := strings.Index(refined, ","); idx > 0 {
		refined = refined[:idx]
	}
	refined = whitespacePattern.ReplaceAllString(refined, " ")
	return strings.TrimSpace(refined)
}
