package geocoding

import (
	"context"
	"hash/fnv"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
)

// MockProvider is a deterministic in-process resolver for local development
// and tests. It hashes the address into a stable coordinate inside the
// service area so map output stays consistent across runs.
type MockProvider struct {
	fixed map[string]entities.Coordinate
}

// NewMockProvider creates a mock resolver.
func NewMockProvider() *MockProvider {
	return &MockProvider{fixed: make(map[string]entities.Coordinate)}
}

// SetCoordinate pins an exact coordinate for an address.
func (p *MockProvider) SetCoordinate(address string, coord entities.Coordinate) {
	p.fixed[RefineAddress(address)] = coord
}

// Resolve returns a stable pseudo-coordinate for the address.
func (p *MockProvider) Resolve(_ context.Context, address string) (*providers.ResolvedAddress, error) {
	refined := RefineAddress(address)

	if coord, ok := p.fixed[refined]; ok {
		return &providers.ResolvedAddress{Coordinate: coord, RefinedAddress: refined}, nil
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(refined))
	sum := h.Sum64()

	lat := minLatitude + float64(sum%100000)/100000.0*(maxLatitude-minLatitude)
	lng := minLongitude + float64((sum/100000)%100000)/100000.0*(maxLongitude-minLongitude)

	return &providers.ResolvedAddress{
		Coordinate:     entities.Coordinate{Lat: lat, Lng: lng},
		RefinedAddress: refined,
	}, nil
}
