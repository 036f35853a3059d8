package entities

import apperrors "github.com/emernav/backend/pkg/errors"

// Severity tiers, 1 = most severe.
const (
	TierResuscitation = 1
	TierEmergent      = 2
	TierUrgent        = 3
	TierLessUrgent    = 4
	TierNonUrgent     = 5
)

// PatientProfile is the finalized triage assessment of one patient. It is
// created by the triage flow and consumed read-only by the matching engine.
type PatientProfile struct {
	SeverityTier         int      `json:"severityTier"`
	PrimaryCondition     string   `json:"primaryCondition"`
	FirstConsiderations  []string `json:"firstConsiderations"`
	SecondConsiderations []string `json:"secondConsiderations"`
	Sex                  string   `json:"sex,omitempty"`
	AgeBracket           string   `json:"ageBracket,omitempty"`
}

// Validate checks the profile is complete enough to drive a search.
func (p *PatientProfile) Validate() error {
	if p.SeverityTier < TierResuscitation || p.SeverityTier > TierNonUrgent {
		return apperrors.NewValidationError("severity tier must be between 1 and 5")
	}
	if p.PrimaryCondition == "" {
		return apperrors.NewValidationError("primary condition is required")
	}
	return nil
}
