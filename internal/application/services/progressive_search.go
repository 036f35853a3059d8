package services

import (
	"context"
	"fmt"
	"time"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/internal/infrastructure/observability"
	"github.com/emernav/backend/pkg/config"
	apperrors "github.com/emernav/backend/pkg/errors"
)

// searchState is the state of the progressive search machine.
type searchState int

const (
	statePending searchState = iota
	stateSufficient
	stateInsufficient
	stateExhausted
)

// searchStrategy is one rung of the widening ladder: a radius and a filter
// relaxation applied to the original request.
type searchStrategy struct {
	label    string
	radiusKm int
	relax    func(entities.CapabilityFilterRequest) entities.CapabilityFilterRequest
}

// ProgressiveSearchService runs the widening facility search: each strategy
// is tried in order until one yields enough results or the ladder is
// exhausted. Strategies run strictly sequentially.
type ProgressiveSearchService struct {
	registry   providers.FacilityRegistry
	metrics    *observability.Metrics
	minResults int
	strategies []searchStrategy
}

// NewProgressiveSearchService creates the search service with the configured
// radii and sufficiency threshold.
func NewProgressiveSearchService(registry providers.FacilityRegistry, metrics *observability.Metrics, cfg *config.SearchConfig) *ProgressiveSearchService {
	initialRadius := 10
	extendedRadius := 20
	minResults := 10
	if cfg != nil {
		if cfg.InitialRadiusKm > 0 {
			initialRadius = cfg.InitialRadiusKm
		}
		if cfg.ExtendedRadiusKm > 0 {
			extendedRadius = cfg.ExtendedRadiusKm
		}
		if cfg.MinResults > 0 {
			minResults = cfg.MinResults
		}
	}

	keep := func(f entities.CapabilityFilterRequest) entities.CapabilityFilterRequest { return f }

	return &ProgressiveSearchService{
		registry:   registry,
		metrics:    metrics,
		minResults: minResults,
		strategies: []searchStrategy{
			{
				label:    fmt.Sprintf("%d km, all requirements", initialRadius),
				radiusKm: initialRadius,
				relax:    keep,
			},
			{
				label:    fmt.Sprintf("%d km, all requirements", extendedRadius),
				radiusKm: extendedRadius,
				relax:    keep,
			},
			{
				label:    fmt.Sprintf("%d km, severe-condition requirement relaxed", initialRadius),
				radiusKm: initialRadius,
				relax:    entities.CapabilityFilterRequest.WithoutSevereCondition,
			},
			{
				label:    fmt.Sprintf("%d km, admission and severe-condition requirements relaxed", extendedRadius),
				radiusKm: extendedRadius,
				relax:    entities.CapabilityFilterRequest.WithoutAdmissionAndSevereCondition,
			},
		},
	}
}

// SearchResult is the raw outcome of the ladder walk, before scoring.
type SearchResult struct {
	Facilities []entities.FacilityRecord
	Progress   []entities.ProgressEntry
	Degraded   bool
}

// Search walks the strategy ladder from the given origin. Zero matches after
// exhausting the ladder is a valid empty result, not an error; an invalid
// origin fails before any registry call.
func (s *ProgressiveSearchService) Search(ctx context.Context, origin entities.Coordinate, filter entities.CapabilityFilterRequest) (*SearchResult, error) {
	if !origin.Valid() {
		return nil, apperrors.NewMissingLocationError("search origin coordinate is missing or invalid")
	}

	logger := observability.LoggerFromContext(ctx)
	result := &SearchResult{}

	state := statePending
	for i, strategy := range s.strategies {
		if state == stateSufficient {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.addProgress(entities.ProgressInfo, "searching within "+strategy.label)

		start := time.Now()
		records, err := s.registry.Search(ctx, providers.FacilityQuery{
			Origin:   origin,
			RadiusKm: strategy.radiusKm,
			Filter:   strategy.relax(filter),
		})
		if s.metrics != nil {
			observability.RecordRegistryMetric(ctx, s.metrics, strategy.label, time.Since(start))
		}

		if err != nil {
			logger.Warn().Err(err).Str("strategy", strategy.label).Msg("registry query failed, continuing ladder")
			result.Degraded = true
			result.addProgress(entities.ProgressWarning,
				fmt.Sprintf("registry unavailable for %s, trying wider criteria", strategy.label))
			state = stateInsufficient
			continue
		}

		// Keep the widest answer obtained so far even when it stays
		// below the threshold.
		result.Facilities = records

		if len(records) >= s.minResults {
			state = stateSufficient
			result.addProgress(entities.ProgressSuccess,
				fmt.Sprintf("found %d facilities within %s", len(records), strategy.label))
			continue
		}

		state = stateInsufficient
		if i < len(s.strategies)-1 {
			result.addProgress(entities.ProgressInfo,
				fmt.Sprintf("only %d facilities within %s, widening search", len(records), strategy.label))
		}
	}

	if state != stateSufficient {
		state = stateExhausted
		if len(result.Facilities) > 0 {
			result.addProgress(entities.ProgressWarning,
				fmt.Sprintf("search options exhausted, returning %d facilities", len(result.Facilities)))
		} else {
			result.addProgress(entities.ProgressWarning, "no facilities matched any search criteria")
		}
	}

	logger.Info().
		Int("facilities", len(result.Facilities)).
		Bool("degraded", result.Degraded).
		Bool("sufficient", state == stateSufficient).
		Msg("progressive search finished")

	return result, nil
}

func (r *SearchResult) addProgress(kind, message string) {
	r.Progress = append(r.Progress, entities.ProgressEntry{
		Message: message,
		Kind:    kind,
		At:      time.Now(),
	})
}
