package providers

import (
	"context"

	"github.com/emernav/backend/internal/domain/entities"
)

// CapabilityClassifier maps a patient profile to the facility-capability
// filter codes the patient requires, with a human-readable justification.
// Implementations may be model-backed or rule tables; the matching engine
// only depends on this contract.
type CapabilityClassifier interface {
	Classify(ctx context.Context, profile *entities.PatientProfile) (*entities.ClassifierResult, error)
}
