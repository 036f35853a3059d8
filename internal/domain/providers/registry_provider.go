package providers

import (
	"context"

	"github.com/emernav/backend/internal/domain/entities"
)

// FacilityQuery is one radius search against the facility-availability
// registry.
type FacilityQuery struct {
	Origin   entities.Coordinate
	RadiusKm int
	Filter   entities.CapabilityFilterRequest
}

// FacilityRegistry exposes the external facility-availability registry.
// A query that matches nothing returns an empty list, not an error.
type FacilityRegistry interface {
	Search(ctx context.Context, query FacilityQuery) ([]entities.FacilityRecord, error)
}
