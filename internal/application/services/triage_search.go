package services

import (
	"context"
	"time"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/internal/infrastructure/observability"
	apperrors "github.com/emernav/backend/pkg/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// TriageSearchService is the end-to-end matching flow: classify the patient
// into capability filters, run the progressive registry search, score the
// snapshots, and assemble the outcome. Classifier failure degrades to the
// rule-based fallback instead of failing the search.
type TriageSearchService struct {
	classifier providers.CapabilityClassifier
	fallback   providers.CapabilityClassifier
	search     *ProgressiveSearchService
	scoring    *ScoringService
	assembly   *AssemblyService
}

// NewTriageSearchService wires the matching flow. classifier may be nil when
// no model backend is configured; the fallback then handles every request.
func NewTriageSearchService(
	classifier providers.CapabilityClassifier,
	fallback providers.CapabilityClassifier,
	search *ProgressiveSearchService,
	scoring *ScoringService,
	assembly *AssemblyService,
) *TriageSearchService {
	return &TriageSearchService{
		classifier: classifier,
		fallback:   fallback,
		search:     search,
		scoring:    scoring,
		assembly:   assembly,
	}
}

// SearchRequest is one assessment search: a finalized patient profile and
// the search origin.
type SearchRequest struct {
	Profile *entities.PatientProfile
	Origin  entities.Coordinate
}

// Search executes the full flow for one assessment.
func (s *TriageSearchService) Search(ctx context.Context, req SearchRequest) (*entities.SearchOutcome, error) {
	ctx, span := observability.StartSpan(ctx, "triage.search")
	defer span.End()

	if req.Profile == nil {
		return nil, apperrors.NewValidationError("patient profile is required")
	}
	if err := req.Profile.Validate(); err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	sessionLogger := observability.GetLogger().With().Str("session_id", sessionID).Logger()
	ctx = sessionLogger.WithContext(ctx)

	classification, usedFallback := s.classify(ctx, req.Profile)
	progress := []entities.ProgressEntry{{
		Message: "capability requirements determined",
		Kind:    entities.ProgressInfo,
		At:      time.Now(),
	}}
	if usedFallback {
		progress = append(progress, entities.ProgressEntry{
			Message: "classifier unavailable, using rule-based requirements",
			Kind:    entities.ProgressWarning,
			At:      time.Now(),
		})
	}

	searchResult, err := s.search.Search(ctx, req.Origin, classification.Filter)
	if err != nil {
		return nil, err
	}
	progress = append(progress, searchResult.Progress...)

	scored := s.scoring.Score(searchResult.Facilities, classification.Filter)

	outcome := s.assembly.Assemble(ctx, AssembleInput{
		SessionID:          sessionID,
		Origin:             req.Origin,
		Scored:             scored,
		Filter:             classification.Filter,
		Reasoning:          classification.Reasoning,
		ClassifierFallback: usedFallback,
		RegistryDegraded:   searchResult.Degraded,
		Progress:           progress,
	})

	observability.SetSpanAttributes(span,
		attribute.Int("search.facilities", len(outcome.Facilities)),
		attribute.Bool("search.classifier_fallback", usedFallback),
		attribute.Bool("search.registry_degraded", searchResult.Degraded),
	)
	observability.LoggerFromContext(ctx).Info().
		Int("facilities", len(outcome.Facilities)).
		Bool("classifier_fallback", usedFallback).
		Msg("assessment search completed")

	return outcome, nil
}

// classify runs the primary classifier and falls back to the rule-based one
// on any failure. The fallback never errors.
func (s *TriageSearchService) classify(ctx context.Context, profile *entities.PatientProfile) (*entities.ClassifierResult, bool) {
	if s.classifier != nil {
		result, err := s.classifier.Classify(ctx, profile)
		if err == nil && result != nil {
			return result, false
		}
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Msg("capability classifier failed, falling back to rules")
		}
	}

	result, _ := s.fallback.Classify(ctx, profile)
	return result, true
}
