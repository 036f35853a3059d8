package entities

// Coordinate is a WGS84 geographic coordinate.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate carries a usable position.
func (c Coordinate) Valid() bool {
	return c.Lat != 0 || c.Lng != 0
}

// ScoredFacility is a FacilityRecord plus its additive score, the ordered
// audit reasons behind that score, and an optionally resolved coordinate.
// Scoring produces a new value; the underlying record is never mutated.
type ScoredFacility struct {
	FacilityRecord

	Score        int      `json:"score"`
	ScoreReasons []string `json:"scoreReasons"`

	// Coordinate is resolved lazily for display. Estimated marks positions
	// substituted after a failed resolution so the caller can distinguish
	// confirmed from approximate placement.
	Coordinate          *Coordinate `json:"coordinate,omitempty"`
	CoordinateEstimated bool        `json:"coordinateEstimated,omitempty"`
}
