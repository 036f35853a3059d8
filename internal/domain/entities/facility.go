package entities

// Facility tier codes as reported by the registry.
const (
	TierRegional = "A"
	TierCenter   = "C"
	TierLocal    = "D"
)

// AvailabilityLevel is the tri-state-plus-unknown indicator for one
// capability at one facility.
type AvailabilityLevel string

const (
	LevelAvailable   AvailabilityLevel = "Y"
	LevelUnavailable AvailabilityLevel = "N"
	LevelRestricted  AvailabilityLevel = "N1"
	LevelUnreported  AvailabilityLevel = "NONE"
)

// AvailabilityElement describes the live availability of one capability
// code. Usable and Total are nil when the registry reports no counts.
type AvailabilityElement struct {
	AvailableLevel AvailabilityLevel `json:"availableLevel"`
	Usable         *int              `json:"usable"`
	Total          *int              `json:"total"`
}

// FacilityNotice is one free-text advisory message published by a facility.
type FacilityNotice struct {
	Message string `json:"message"`
}

// FacilityRecord is one registry entry: an ephemeral per-request snapshot of
// a facility's identity and live capability state. Records are never
// persisted and never mutated after scoring.
type FacilityRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	WiredTel    string  `json:"wiredTel,omitempty"`
	WirelessTel string  `json:"wirelessTel,omitempty"`
	TierCode    string  `json:"tierCode"`
	DistanceKm  float64 `json:"distanceKm"`

	Bed             map[string]AvailabilityElement `json:"bedAvailability,omitempty"`
	Admission       map[string]AvailabilityElement `json:"admissionAvailability,omitempty"`
	SevereCondition map[string]AvailabilityElement `json:"severeConditionAvailability,omitempty"`
	Equipment       map[string]AvailabilityElement `json:"equipmentAvailability,omitempty"`

	Notices             []FacilityNotice `json:"notices,omitempty"`
	UnavailableNotices  []FacilityNotice `json:"unavailableNotices,omitempty"`

	// AdvisoryPenalty is a non-negative penalty pre-computed upstream from
	// the free-text notices, subtracted verbatim during scoring so the
	// structured fields above are not double-counted.
	AdvisoryPenalty int      `json:"advisoryPenalty,omitempty"`
	AdvisoryReasons []string `json:"advisoryReasons,omitempty"`
}

// Availability returns the capability map of one category.
func (f *FacilityRecord) Availability(category CapabilityCategory) map[string]AvailabilityElement {
	switch category {
	case CategoryBed:
		return f.Bed
	case CategoryAdmission:
		return f.Admission
	case CategorySevereCondition:
		return f.SevereCondition
	case CategoryEquipment:
		return f.Equipment
	}
	return nil
}

// Phone returns the preferred contact number.
func (f *FacilityRecord) Phone() string {
	if f.WiredTel != "" && f.WiredTel != "-" {
		return f.WiredTel
	}
	return f.WirelessTel
}

// TierName returns the display name of the facility tier.
func (f *FacilityRecord) TierName() string {
	switch f.TierCode {
	case TierRegional:
		return "regional emergency center"
	case TierCenter:
		return "local emergency center"
	case TierLocal:
		return "local emergency facility"
	}
	return "emergency facility"
}
