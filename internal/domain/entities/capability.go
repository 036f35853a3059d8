package entities

import "sort"

// CapabilityCategory identifies one of the four independent capability
// filter categories accepted by the facility registry.
type CapabilityCategory string

const (
	CategoryBed             CapabilityCategory = "bedCategory"
	CategoryAdmission       CapabilityCategory = "admissionCategory"
	CategorySevereCondition CapabilityCategory = "severeConditionCategory"
	CategoryEquipment       CapabilityCategory = "equipmentCategory"
)

// CodeGenericBed is the generic emergency-bay bed code, the conservative
// default filter when classification fails.
const CodeGenericBed = "O001"

// bedCodes is the emergency-bay vocabulary.
var bedCodes = map[string]string{
	"O001": "general emergency bay",
	"O002": "pediatric emergency bay",
	"O003": "negative-pressure isolation bay",
	"O004": "general isolation bay",
	"O048": "pediatric negative-pressure isolation bay",
	"O049": "pediatric general isolation bay",
	"O057": "psychiatric emergency bay",
	"O059": "cohort isolation bay",
	"O060": "trauma resuscitation bay",
}

// admissionCodes is the ward/ICU vocabulary.
var admissionCodes = map[string]string{
	"O005": "ER-dedicated ICU bed",
	"O006": "medical ICU bed",
	"O007": "surgical ICU bed",
	"O008": "neonatal ICU bed",
	"O009": "pediatric ICU bed",
	"O010": "pediatric ER-dedicated ICU bed",
	"O011": "neurology ICU bed",
	"O012": "neurosurgery ICU bed",
	"O013": "burn ICU bed",
	"O014": "trauma ICU bed",
	"O015": "cardiology ICU bed",
	"O016": "thoracic surgery ICU bed",
	"O017": "general ICU bed",
	"O018": "negative-pressure ICU bed",
	"O019": "ER-dedicated inpatient bed",
	"O020": "pediatric ER-dedicated inpatient bed",
	"O021": "trauma inpatient bed",
	"O022": "operating room",
	"O023": "trauma operating room",
	"O024": "closed psychiatric ward bed",
	"O025": "negative-pressure inpatient bed",
	"O026": "delivery room",
	"O036": "burn treatment unit",
	"O038": "general inpatient bed",
	"O050": "ER-dedicated ICU, negative-pressure isolation",
	"O051": "ER-dedicated ICU, general isolation",
	"O052": "ER-dedicated inpatient bed, negative-pressure isolation",
	"O053": "ER-dedicated inpatient bed, general isolation",
}

// severeConditionCodes is the critical-condition handling vocabulary.
var severeConditionCodes = map[string]string{
	"Y0010": "myocardial infarction reperfusion",
	"Y0020": "ischemic stroke reperfusion",
	"Y0031": "subarachnoid hemorrhage surgery",
	"Y0032": "other cerebral hemorrhage surgery",
	"Y0041": "thoracic aortic emergency",
	"Y0042": "abdominal aortic emergency",
	"Y0051": "gallbladder disease",
	"Y0052": "biliary tract disease",
	"Y0060": "non-traumatic abdominal emergency surgery",
	"Y0070": "pediatric intussusception",
	"Y0081": "adult gastrointestinal endoscopy",
	"Y0082": "pediatric gastrointestinal endoscopy",
	"Y0091": "adult bronchoscopy",
	"Y0092": "pediatric bronchoscopy",
	"Y0100": "low-birth-weight infant intensive care",
	"Y0111": "obstetric delivery",
	"Y0112": "obstetric surgery",
	"Y0113": "gynecologic surgery",
	"Y0120": "severe burn care",
	"Y0131": "digit replantation",
	"Y0132": "limb replantation",
	"Y0141": "emergency hemodialysis",
	"Y0142": "emergency continuous renal replacement",
	"Y0150": "psychiatric emergency closed-ward admission",
	"Y0160": "emergency ophthalmic surgery",
	"Y0171": "adult interventional radiology",
	"Y0172": "pediatric interventional radiology",
}

// equipmentCodes is the equipment-availability vocabulary.
var equipmentCodes = map[string]string{
	"O027": "CT scanner",
	"O028": "MRI scanner",
	"O029": "angiography suite",
	"O030": "ventilator",
	"O031": "preterm-infant ventilator",
	"O032": "incubator",
	"O033": "CRRT machine",
	"O034": "ECMO",
	"O035": "targeted temperature management",
	"O037": "hyperbaric oxygen chamber",
}

var vocabularyByCategory = map[CapabilityCategory]map[string]string{
	CategoryBed:             bedCodes,
	CategoryAdmission:       admissionCodes,
	CategorySevereCondition: severeConditionCodes,
	CategoryEquipment:       equipmentCodes,
}

// IsKnownCode reports whether code belongs to the closed vocabulary of the
// given category.
func IsKnownCode(category CapabilityCategory, code string) bool {
	_, ok := vocabularyByCategory[category][code]
	return ok
}

// CodeName returns the display name for a code, falling back to the code
// itself when unknown.
func CodeName(code string) string {
	for _, vocab := range vocabularyByCategory {
		if name, ok := vocab[code]; ok {
			return name
		}
	}
	return code
}

// VocabularyCodes returns the sorted code list of one category.
func VocabularyCodes(category CapabilityCategory) []string {
	vocab := vocabularyByCategory[category]
	codes := make([]string, 0, len(vocab))
	for code := range vocab {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CapabilityFilterRequest carries the capability codes a patient requires,
// one optional set per category. A nil slice means the category was not
// requested and must not influence scoring.
type CapabilityFilterRequest struct {
	BedCategory             []string `json:"bedCategory"`
	AdmissionCategory       []string `json:"admissionCategory"`
	SevereConditionCategory []string `json:"severeConditionCategory"`
	EquipmentCategory       []string `json:"equipmentCategory"`
}

// Codes returns the requested code set for one category.
func (f CapabilityFilterRequest) Codes(category CapabilityCategory) []string {
	switch category {
	case CategoryBed:
		return f.BedCategory
	case CategoryAdmission:
		return f.AdmissionCategory
	case CategorySevereCondition:
		return f.SevereConditionCategory
	case CategoryEquipment:
		return f.EquipmentCategory
	}
	return nil
}

// Requested reports whether the category carries at least one code.
func (f CapabilityFilterRequest) Requested(category CapabilityCategory) bool {
	return len(f.Codes(category)) > 0
}

// Sanitize returns a copy of the request with unknown and duplicate codes
// removed, plus the list of rejected codes. Unknown codes must never be
// forwarded to the registry.
func (f CapabilityFilterRequest) Sanitize() (CapabilityFilterRequest, []string) {
	var rejected []string
	clean := CapabilityFilterRequest{}
	clean.BedCategory, rejected = sanitizeCodes(CategoryBed, f.BedCategory, rejected)
	clean.AdmissionCategory, rejected = sanitizeCodes(CategoryAdmission, f.AdmissionCategory, rejected)
	clean.SevereConditionCategory, rejected = sanitizeCodes(CategorySevereCondition, f.SevereConditionCategory, rejected)
	clean.EquipmentCategory, rejected = sanitizeCodes(CategoryEquipment, f.EquipmentCategory, rejected)
	return clean, rejected
}

// WithoutSevereCondition returns a relaxed copy with the severe-condition
// filter dropped.
func (f CapabilityFilterRequest) WithoutSevereCondition() CapabilityFilterRequest {
	relaxed := f
	relaxed.SevereConditionCategory = nil
	return relaxed
}

// WithoutAdmissionAndSevereCondition returns a relaxed copy with both the
// admission and severe-condition filters dropped.
func (f CapabilityFilterRequest) WithoutAdmissionAndSevereCondition() CapabilityFilterRequest {
	relaxed := f
	relaxed.AdmissionCategory = nil
	relaxed.SevereConditionCategory = nil
	return relaxed
}

func sanitizeCodes(category CapabilityCategory, codes []string, rejected []string) ([]string, []string) {
	if len(codes) == 0 {
		return nil, rejected
	}
	seen := make(map[string]struct{}, len(codes))
	var clean []string
	for _, code := range codes {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if !IsKnownCode(category, code) {
			rejected = append(rejected, code)
			continue
		}
		clean = append(clean, code)
	}
	return clean, rejected
}

// ClassifierResult is the capability classifier's output: the filter request
// plus a human-readable justification.
type ClassifierResult struct {
	Filter    CapabilityFilterRequest `json:"filter"`
	Reasoning string                  `json:"reasoning"`
}
