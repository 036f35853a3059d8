package services

import (
	"testing"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func defaultScorer() *ScoringService {
	return NewScoringService(&config.ScoringConfig{
		DistanceWeight: 1.0,
		BedWeight:      0.5,
		DisplayLimit:   20,
	})
}

func bedMap(usable int) map[string]entities.AvailabilityElement {
	return map[string]entities.AvailabilityElement{
		entities.CodeGenericBed: {
			AvailableLevel: entities.LevelAvailable,
			Usable:         intPtr(usable),
			Total:          intPtr(20),
		},
	}
}

func TestScore_BaselineFacility(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{
		ID:         "F1",
		Name:       "City Emergency Center",
		TierCode:   entities.TierCenter,
		DistanceKm: 2.0,
		Bed:        bedMap(4),
	}}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{
		BedCategory: []string{entities.CodeGenericBed},
	})

	require.Len(t, scored, 1)
	// 1000 - 2 (distance) + 5 (tier C) + 2 (4 beds x 0.5)
	assert.Equal(t, 1005, scored[0].Score)
	assert.Len(t, scored[0].ScoreReasons, 3)
}

func TestScore_FartherFacilityScoresLowerByDistancePenalty(t *testing.T) {
	scorer := defaultScorer()

	near := entities.FacilityRecord{ID: "near", TierCode: entities.TierCenter, DistanceKm: 3.0, Bed: bedMap(4)}
	far := near
	far.ID = "far"
	far.DistanceKm = 8.0
	far.Bed = bedMap(4)

	scored := scorer.Score([]entities.FacilityRecord{far, near}, entities.CapabilityFilterRequest{
		BedCategory: []string{entities.CodeGenericBed},
	})

	require.Len(t, scored, 2)
	assert.Equal(t, "near", scored[0].ID)
	assert.Equal(t, "far", scored[1].ID)
	// Identical facilities differ only by round(delta x weight): 5 km x 1.0.
	assert.Equal(t, 5, scored[0].Score-scored[1].Score)
}

func TestScore_NoBedsFree(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{
		ID:         "F1",
		DistanceKm: 5.0,
		Bed: map[string]entities.AvailabilityElement{
			entities.CodeGenericBed: {
				AvailableLevel: entities.LevelAvailable,
				Usable:         intPtr(0),
			},
		},
	}}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{})

	// 1000 - 5 - 100
	assert.Equal(t, 895, scored[0].Score)
}

func TestScore_BedStatusUnreported(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{ID: "F1", DistanceKm: 1.0}}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{})

	// 1000 - 1 - 30
	assert.Equal(t, 969, scored[0].Score)
}

func TestScore_SevereConditionUnavailable(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{
		ID:         "F1",
		DistanceKm: 1.0,
		Bed:        bedMap(2),
		SevereCondition: map[string]entities.AvailabilityElement{
			"Y0010": {AvailableLevel: entities.LevelUnavailable},
		},
	}}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{
		SevereConditionCategory: []string{"Y0010"},
	})

	// 1000 - 1 + 1 (2 beds x 0.5) - 100
	assert.Equal(t, 900, scored[0].Score)

	var sawUnavailable bool
	for _, reason := range scored[0].ScoreReasons {
		if reason == "myocardial infarction reperfusion unavailable: -100" {
			sawUnavailable = true
		}
	}
	assert.True(t, sawUnavailable, "expected an unavailable reason, got %v", scored[0].ScoreReasons)
}

func TestScore_RequestedCategoryNotReported(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{
		ID:         "F1",
		DistanceKm: 1.0,
		Bed:        bedMap(2),
	}}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{
		AdmissionCategory: []string{"O006", "O017"},
	})

	// Missing category data takes one flat penalty, not one per code:
	// 1000 - 1 + 1 - 50
	assert.Equal(t, 950, scored[0].Score)
}

func TestScore_UnrequestedCategoriesIgnored(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{
		ID:         "F1",
		DistanceKm: 1.0,
		Bed:        bedMap(2),
		Equipment: map[string]entities.AvailabilityElement{
			"O027": {AvailableLevel: entities.LevelUnavailable},
		},
	}}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{})

	// Equipment was not requested, so its unavailability must not penalize.
	assert.Equal(t, 1000, scored[0].Score)
}

func TestScore_AdvisoryPenaltyApplied(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{
		ID:              "F1",
		DistanceKm:      1.0,
		Bed:             bedMap(2),
		AdvisoryPenalty: 40,
		AdvisoryReasons: []string{"CT scanner out of service"},
	}}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{})

	assert.Equal(t, 960, scored[0].Score)
	assert.Contains(t, scored[0].ScoreReasons, "CT scanner out of service")
}

func TestScore_TierBonusRanking(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{
		{ID: "local", TierCode: entities.TierLocal, DistanceKm: 3.0, Bed: bedMap(2)},
		{ID: "regional", TierCode: entities.TierRegional, DistanceKm: 3.0, Bed: bedMap(2)},
		{ID: "center", TierCode: entities.TierCenter, DistanceKm: 3.0, Bed: bedMap(2)},
	}

	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{})

	require.Len(t, scored, 3)
	assert.Equal(t, "regional", scored[0].ID)
	assert.Equal(t, "center", scored[1].ID)
	assert.Equal(t, "local", scored[2].ID)
}

func TestScore_TieBreaksByDistanceThenID(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{
		{ID: "far", DistanceKm: 4.0, Bed: bedMap(2)},
		{ID: "near", DistanceKm: 2.0, Bed: bedMap(6)},
		{ID: "b", DistanceKm: 2.0, Bed: bedMap(6)},
		{ID: "a", DistanceKm: 2.0, Bed: bedMap(6)},
	}

	// near/b/a all score 1001; far scores 999.
	scored := scorer.Score(facilities, entities.CapabilityFilterRequest{})

	require.Len(t, scored, 4)
	assert.Equal(t, "a", scored[0].ID)
	assert.Equal(t, "b", scored[1].ID)
	assert.Equal(t, "near", scored[2].ID)
	assert.Equal(t, "far", scored[3].ID)
}

func TestScore_Deterministic(t *testing.T) {
	scorer := defaultScorer()

	facilities := []entities.FacilityRecord{{
		ID:         "F1",
		DistanceKm: 3.7,
		TierCode:   entities.TierRegional,
		Bed:        bedMap(5),
		SevereCondition: map[string]entities.AvailabilityElement{
			"Y0010": {AvailableLevel: entities.LevelAvailable},
			"Y0020": {AvailableLevel: entities.LevelUnreported},
		},
	}}
	filter := entities.CapabilityFilterRequest{
		BedCategory:             []string{entities.CodeGenericBed},
		SevereConditionCategory: []string{"Y0020", "Y0010"},
	}

	first := scorer.Score(facilities, filter)
	second := scorer.Score(facilities, filter)

	assert.Equal(t, first[0].Score, second[0].Score)
	assert.Equal(t, first[0].ScoreReasons, second[0].ScoreReasons)
}

func TestScore_DoesNotMutateInput(t *testing.T) {
	scorer := defaultScorer()

	record := entities.FacilityRecord{ID: "F1", DistanceKm: 2.0, Bed: bedMap(3)}
	facilities := []entities.FacilityRecord{record}

	_ = scorer.Score(facilities, entities.CapabilityFilterRequest{})

	assert.Equal(t, record, facilities[0])
}

func TestScore_EmptyInput(t *testing.T) {
	scorer := defaultScorer()

	scored := scorer.Score(nil, entities.CapabilityFilterRequest{})

	assert.NotNil(t, scored)
	assert.Empty(t, scored)
}
