package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/pkg/config"
)

// Scoring base and adjustment constants. Distance and bed-count weights are
// deployment-tunable through ScoringConfig; the availability adjustments are
// fixed.
const (
	scoreBase = 1000

	tierRegionalBonus = 10
	tierCenterBonus   = 5

	bedMissingPenalty = 30
	bedFullPenalty    = 100

	severeAvailableBonus     = 10
	severeUnavailablePenalty = 100
	severeUnreportedPenalty  = 50
	severeMissingPenalty     = 50

	admissionAvailableBonus     = 5
	admissionUnavailablePenalty = 100
	admissionUnreportedPenalty  = 50
	admissionMissingPenalty     = 50

	equipmentAvailableBonus     = 5
	equipmentUnavailablePenalty = 40
	equipmentUnreportedPenalty  = 30
	equipmentMissingPenalty     = 30
)

// categoryWeights is the per-code adjustment set for one capability category.
type categoryWeights struct {
	available      int
	unavailable    int
	unreported     int
	missingDataSet int
}

// ScoringService ranks facility snapshots for one capability filter. Scoring
// is pure: the same inputs always produce the same ranked output, and input
// records are never mutated.
type ScoringService struct {
	distanceWeight float64
	bedWeight      float64
}

// NewScoringService creates a scorer with the configured weights.
func NewScoringService(cfg *config.ScoringConfig) *ScoringService {
	distanceWeight := 1.0
	bedWeight := 0.5
	if cfg != nil {
		if cfg.DistanceWeight > 0 {
			distanceWeight = cfg.DistanceWeight
		}
		if cfg.BedWeight > 0 {
			bedWeight = cfg.BedWeight
		}
	}
	return &ScoringService{
		distanceWeight: distanceWeight,
		bedWeight:      bedWeight,
	}
}

// Score evaluates every facility against the filter and returns the list
// ranked by score descending, with distance and then ID as tie-breakers.
func (s *ScoringService) Score(facilities []entities.FacilityRecord, filter entities.CapabilityFilterRequest) []entities.ScoredFacility {
	scored := make([]entities.ScoredFacility, 0, len(facilities))
	for i := range facilities {
		scored = append(scored, s.scoreOne(&facilities[i], filter))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].DistanceKm != scored[j].DistanceKm {
			return scored[i].DistanceKm < scored[j].DistanceKm
		}
		return scored[i].ID < scored[j].ID
	})

	return scored
}

func (s *ScoringService) scoreOne(record *entities.FacilityRecord, filter entities.CapabilityFilterRequest) entities.ScoredFacility {
	score := scoreBase
	var reasons []string

	distancePenalty := int(math.Round(record.DistanceKm * s.distanceWeight))
	score -= distancePenalty
	reasons = append(reasons, fmt.Sprintf("distance %.1f km: -%d", record.DistanceKm, distancePenalty))

	switch record.TierCode {
	case entities.TierRegional:
		score += tierRegionalBonus
		reasons = append(reasons, fmt.Sprintf("%s: +%d", record.TierName(), tierRegionalBonus))
	case entities.TierCenter:
		score += tierCenterBonus
		reasons = append(reasons, fmt.Sprintf("%s: +%d", record.TierName(), tierCenterBonus))
	}

	score = s.applyBed(record, score, &reasons)
	score = applyCategory(record, filter, entities.CategorySevereCondition, categoryWeights{
		available:      severeAvailableBonus,
		unavailable:    severeUnavailablePenalty,
		unreported:     severeUnreportedPenalty,
		missingDataSet: severeMissingPenalty,
	}, score, &reasons)
	score = applyCategory(record, filter, entities.CategoryAdmission, categoryWeights{
		available:      admissionAvailableBonus,
		unavailable:    admissionUnavailablePenalty,
		unreported:     admissionUnreportedPenalty,
		missingDataSet: admissionMissingPenalty,
	}, score, &reasons)
	score = applyCategory(record, filter, entities.CategoryEquipment, categoryWeights{
		available:      equipmentAvailableBonus,
		unavailable:    equipmentUnavailablePenalty,
		unreported:     equipmentUnreportedPenalty,
		missingDataSet: equipmentMissingPenalty,
	}, score, &reasons)

	if record.AdvisoryPenalty > 0 {
		score -= record.AdvisoryPenalty
		reasons = append(reasons, record.AdvisoryReasons...)
	}

	return entities.ScoredFacility{
		FacilityRecord: *record,
		Score:          score,
		ScoreReasons:   reasons,
	}
}

// applyBed scores the generic emergency-bay entry. Only the generic bed code
// carries live usable counts; other bay types are filtered server-side.
func (s *ScoringService) applyBed(record *entities.FacilityRecord, score int, reasons *[]string) int {
	element, ok := record.Bed[entities.CodeGenericBed]
	if !ok {
		score -= bedMissingPenalty
		*reasons = append(*reasons, fmt.Sprintf("emergency bay status unreported: -%d", bedMissingPenalty))
		return score
	}

	if element.Usable == nil || *element.Usable <= 0 {
		score -= bedFullPenalty
		*reasons = append(*reasons, fmt.Sprintf("no emergency bay free: -%d", bedFullPenalty))
		return score
	}

	bonus := int(math.Round(float64(*element.Usable) * s.bedWeight))
	score += bonus
	*reasons = append(*reasons, fmt.Sprintf("%d emergency bays free: +%d", *element.Usable, bonus))
	return score
}

// applyCategory scores one requested capability category. Requested codes
// are visited in sorted order; a code absent from a reporting facility's map
// counts as unreported, and a facility with no data at all for a requested
// category takes the single missing-data penalty instead.
func applyCategory(record *entities.FacilityRecord, filter entities.CapabilityFilterRequest, category entities.CapabilityCategory, weights categoryWeights, score int, reasons *[]string) int {
	if !filter.Requested(category) {
		return score
	}

	availability := record.Availability(category)
	if len(availability) == 0 {
		score -= weights.missingDataSet
		*reasons = append(*reasons, fmt.Sprintf("no %s data reported: -%d", categoryLabel(category), weights.missingDataSet))
		return score
	}

	requested := append([]string(nil), filter.Codes(category)...)
	sort.Strings(requested)

	for _, code := range requested {
		element, ok := availability[code]
		level := element.AvailableLevel
		if !ok {
			level = entities.LevelUnreported
		}

		switch level {
		case entities.LevelAvailable:
			score += weights.available
			*reasons = append(*reasons, fmt.Sprintf("%s available: +%d", entities.CodeName(code), weights.available))
		case entities.LevelUnavailable, entities.LevelRestricted:
			score -= weights.unavailable
			*reasons = append(*reasons, fmt.Sprintf("%s unavailable: -%d", entities.CodeName(code), weights.unavailable))
		default:
			score -= weights.unreported
			*reasons = append(*reasons, fmt.Sprintf("%s unreported: -%d", entities.CodeName(code), weights.unreported))
		}
	}

	return score
}

func categoryLabel(category entities.CapabilityCategory) string {
	switch category {
	case entities.CategorySevereCondition:
		return "severe-condition"
	case entities.CategoryAdmission:
		return "admission"
	case entities.CategoryEquipment:
		return "equipment"
	}
	return string(category)
}
