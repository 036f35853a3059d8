package classifier

import (
	"context"
	"strings"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/pkg/utils"
)

// keywordRule adds capability codes when any of its keywords appears in the
// patient's condition or considerations.
type keywordRule struct {
	keywords  []string
	bed       []string
	admission []string
	severe    []string
	equipment []string
}

// Rules are checked in order; multiple rules may fire for one patient.
// The table errs toward broad matches so the fallback still narrows the
// registry query usefully when the model classifier is unavailable.
var keywordRules = []keywordRule{
	{
		keywords:  []string{"cardiac arrest", "stemi", "myocardial infarction", "heart attack", "chest pain"},
		admission: []string{"O015"},
		severe:    []string{"Y0010"},
	},
	{
		keywords:  []string{"stroke", "cva", "hemiparesis", "facial droop", "slurred speech"},
		admission: []string{"O012"},
		severe:    []string{"Y0020"},
	},
	{
		keywords:  []string{"brain hemorrhage", "subarachnoid", "intracranial"},
		admission: []string{"O012"},
		severe:    []string{"Y0031", "Y0032"},
	},
	{
		keywords:  []string{"seizure", "status epilepticus", "convulsion"},
		admission: []string{"O011"},
	},
	{
		keywords:  []string{"trauma", "fall from height", "motor vehicle", "crush injury", "gunshot", "stab"},
		bed:       []string{"O060"},
		admission: []string{"O014", "O023"},
	},
	{
		keywords:  []string{"fracture", "dislocation"},
		admission: []string{"O021"},
	},
	{
		keywords:  []string{"burn", "scald"},
		admission: []string{"O013"},
		severe:    []string{"Y0120"},
	},
	{
		keywords:  []string{"gi bleed", "hematemesis", "melena", "gastrointestinal bleeding"},
		admission: []string{"O006"},
		severe:    []string{"Y0081"},
	},
	{
		keywords:  []string{"acute abdomen", "appendicitis", "perforation", "bowel obstruction"},
		admission: []string{"O007"},
		severe:    []string{"Y0060"},
		equipment: []string{"O027"},
	},
	{
		keywords:  []string{"respiratory failure", "dyspnea", "shortness of breath", "hypoxia"},
		admission: []string{"O006"},
		equipment: []string{"O030"},
	},
	{
		keywords:  []string{"pregnan", "labor", "obstetric", "vaginal bleeding"},
		admission: []string{"O026"},
		severe:    []string{"Y0111"},
	},
	{
		keywords: []string{"pediatric", "infant", "child", "neonat"},
		bed:      []string{"O002"},
	},
	{
		keywords:  []string{"psychiatric", "suicidal", "self-harm", "agitation", "psychosis"},
		bed:       []string{"O057"},
		admission: []string{"O024"},
		severe:    []string{"Y0150"},
	},
	{
		keywords: []string{"covid", "tuberculosis", "measles", "airborne"},
		bed:      []string{"O003"},
	},
	{
		keywords:  []string{"sepsis", "septic shock", "shock"},
		admission: []string{"O006"},
	},
	{
		keywords:  []string{"dialysis", "renal failure", "hyperkalemia"},
		severe:    []string{"Y0141"},
		equipment: []string{"O033"},
	},
	{
		keywords:  []string{"overdose", "poisoning", "intoxication"},
		admission: []string{"O006"},
	},
}

// RuleBased is a keyword-table classifier used when the model classifier
// is unreachable or misconfigured. It never returns an error.
type RuleBased struct{}

// NewRuleBased creates the fallback classifier.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Classify derives capability codes from keyword matches against the
// patient's condition text. No match yields the generic-bed filter.
func (c *RuleBased) Classify(_ context.Context, profile *entities.PatientProfile) (*entities.ClassifierResult, error) {
	haystack := utils.NormalizeConditionText(strings.Join(append(
		[]string{profile.PrimaryCondition},
		append(profile.FirstConsiderations, profile.SecondConsiderations...)...,
	), " "))

	var matched []string
	filter := entities.CapabilityFilterRequest{}

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				filter.BedCategory = appendUnique(filter.BedCategory, rule.bed...)
				filter.AdmissionCategory = appendUnique(filter.AdmissionCategory, rule.admission...)
				filter.SevereConditionCategory = appendUnique(filter.SevereConditionCategory, rule.severe...)
				filter.EquipmentCategory = appendUnique(filter.EquipmentCategory, rule.equipment...)
				matched = append(matched, kw)
				break
			}
		}
	}

	if len(filter.BedCategory) == 0 {
		filter.BedCategory = []string{entities.CodeGenericBed}
	}

	sanitized, _ := filter.Sanitize()

	reasoning := "rule-based fallback: no keyword match, general emergency bay only"
	if len(matched) > 0 {
		reasoning = "rule-based fallback matched: " + strings.Join(matched, ", ")
	}

	return &entities.ClassifierResult{
		Filter:    sanitized,
		Reasoning: reasoning,
	}, nil
}

func appendUnique(dst []string, codes ...string) []string {
	for _, code := range codes {
		found := false
		for _, existing := range dst {
			if existing == code {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, code)
		}
	}
	return dst
}
