package services

import (
	"context"
	"time"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/internal/infrastructure/observability"
	"github.com/emernav/backend/pkg/config"
)

// AssemblyService turns a ranked facility list into the final search
// outcome: it resolves coordinates for the display window and merges the
// reasoning, fallback indicators, and progress log into one value.
type AssemblyService struct {
	resolver        providers.CoordinateResolver
	minCallInterval time.Duration
	displayLimit    int
}

// NewAssemblyService creates the assembler. The resolver may be nil, in
// which case every facility keeps an estimated coordinate.
func NewAssemblyService(resolver providers.CoordinateResolver, geocoderCfg *config.GeocoderConfig, scoringCfg *config.ScoringConfig) *AssemblyService {
	interval := 100 * time.Millisecond
	if geocoderCfg != nil && geocoderCfg.MinCallIntervalMs > 0 {
		interval = time.Duration(geocoderCfg.MinCallIntervalMs) * time.Millisecond
	}

	displayLimit := 20
	if scoringCfg != nil && scoringCfg.DisplayLimit > 0 {
		displayLimit = scoringCfg.DisplayLimit
	}

	return &AssemblyService{
		resolver:        resolver,
		minCallInterval: interval,
		displayLimit:    displayLimit,
	}
}

// AssembleInput carries everything the assembler merges into the outcome.
type AssembleInput struct {
	SessionID          string
	Origin             entities.Coordinate
	Scored             []entities.ScoredFacility
	Filter             entities.CapabilityFilterRequest
	Reasoning          string
	ClassifierFallback bool
	RegistryDegraded   bool
	Progress           []entities.ProgressEntry
}

// Assemble resolves display-window coordinates and builds the outcome. The
// full ranked list is retained; only the display window is geocoded.
func (s *AssemblyService) Assemble(ctx context.Context, in AssembleInput) *entities.SearchOutcome {
	arena := newCoordinateArena(s.resolver, in.Origin, s.minCallInterval)

	limit := s.displayLimit
	if limit > len(in.Scored) {
		limit = len(in.Scored)
	}
	for i := 0; i < limit; i++ {
		coord, estimated := arena.resolve(ctx, in.Scored[i].Address)
		in.Scored[i].Coordinate = coord
		in.Scored[i].CoordinateEstimated = estimated
	}

	return &entities.SearchOutcome{
		SessionID:          in.SessionID,
		Facilities:         in.Scored,
		Reasoning:          in.Reasoning,
		ClassifierFallback: in.ClassifierFallback,
		RegistryDegraded:   in.RegistryDegraded,
		Filter:             in.Filter,
		Progress:           in.Progress,
	}
}

// arenaEntry is one resolved (or failed) address in the session arena.
type arenaEntry struct {
	coordinate entities.Coordinate
	estimated  bool
}

// coordinateArena caches address resolutions for the lifetime of one
// assembly call. Each distinct address is resolved at most once, calls are
// strictly serialized, and consecutive resolver calls are paced apart. On
// failure the search origin stands in as a clearly-flagged estimate.
type coordinateArena struct {
	resolver providers.CoordinateResolver
	origin   entities.Coordinate
	interval time.Duration
	entries  map[string]arenaEntry
	lastCall time.Time
}

func newCoordinateArena(resolver providers.CoordinateResolver, origin entities.Coordinate, interval time.Duration) *coordinateArena {
	return &coordinateArena{
		resolver: resolver,
		origin:   origin,
		interval: interval,
		entries:  make(map[string]arenaEntry),
	}
}

func (a *coordinateArena) resolve(ctx context.Context, address string) (*entities.Coordinate, bool) {
	if entry, ok := a.entries[address]; ok {
		coord := entry.coordinate
		return &coord, entry.estimated
	}

	entry := a.resolveUncached(ctx, address)
	a.entries[address] = entry

	coord := entry.coordinate
	return &coord, entry.estimated
}

func (a *coordinateArena) resolveUncached(ctx context.Context, address string) arenaEntry {
	if a.resolver == nil || address == "" {
		return arenaEntry{coordinate: a.origin, estimated: true}
	}

	a.pace(ctx)

	resolved, err := a.resolver.Resolve(ctx, address)
	a.lastCall = time.Now()
	if err != nil || resolved == nil || !resolved.Coordinate.Valid() {
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("address", address).
				Msg("coordinate resolution failed, using estimated position")
		}
		return arenaEntry{coordinate: a.origin, estimated: true}
	}

	return arenaEntry{coordinate: resolved.Coordinate}
}

// pace enforces the minimum interval between consecutive resolver calls.
func (a *coordinateArena) pace(ctx context.Context) {
	if a.lastCall.IsZero() {
		return
	}

	elapsed := time.Since(a.lastCall)
	if elapsed >= a.interval {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(a.interval - elapsed):
	}
}
