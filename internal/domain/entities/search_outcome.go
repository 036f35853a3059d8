package entities

import "time"

// Progress entry kinds, for display styling of the audit trail.
const (
	ProgressInfo    = "info"
	ProgressSuccess = "success"
	ProgressWarning = "warning"
	ProgressError   = "error"
)

// ProgressEntry is one step of the search audit trail.
type ProgressEntry struct {
	Message string    `json:"message"`
	Kind    string    `json:"kind"`
	At      time.Time `json:"at"`
}

// SearchOutcome is the assembled result of one assessment search: the full
// ranked facility list, the classifier's justification, the fallback
// indicators for degraded-confidence disclosure, and the progress log.
type SearchOutcome struct {
	SessionID string `json:"sessionId"`

	Facilities []ScoredFacility `json:"facilities"`

	Reasoning          string `json:"reasoning"`
	ClassifierFallback bool   `json:"classifierFallback"`
	RegistryDegraded   bool   `json:"registryDegraded"`

	Filter   CapabilityFilterRequest `json:"filter"`
	Progress []ProgressEntry         `json:"progress"`
}

// Top returns the leading n facilities of the ranked list without copying
// the underlying records.
func (o *SearchOutcome) Top(n int) []ScoredFacility {
	if n <= 0 || n >= len(o.Facilities) {
		return o.Facilities
	}
	return o.Facilities[:n]
}
