package providers

import (
	"context"

	"github.com/emernav/backend/internal/domain/entities"
)

// ResolvedAddress is a successfully geocoded address.
type ResolvedAddress struct {
	Coordinate     entities.Coordinate
	RefinedAddress string
}

// CoordinateResolver converts a free-text address to a coordinate.
// Resolution failures return an error; callers substitute an estimated,
// clearly-flagged position rather than dropping the facility.
type CoordinateResolver interface {
	Resolve(ctx context.Context, address string) (*ResolvedAddress, error)
}
