package utils

import (
	"regexp"
	"strings"
)

// clinicalAbbreviations maps common clinical shorthand to the full phrases
// the keyword classifier matches against. All keys are lowercase.
var clinicalAbbreviations = map[string]string{
	"mi":    "myocardial infarction",
	"ami":   "myocardial infarction",
	"stemi": "stemi myocardial infarction",
	"cva":   "stroke",
	"tia":   "stroke transient ischemic attack",
	"sah":   "subarachnoid hemorrhage",
	"ich":   "intracranial hemorrhage",
	"sob":   "shortness of breath",
	"copd":  "chronic obstructive pulmonary disease dyspnea",
	"gib":   "gastrointestinal bleeding",
	"ugib":  "gastrointestinal bleeding",
	"dka":   "diabetic ketoacidosis",
	"mvc":   "motor vehicle collision trauma",
	"mva":   "motor vehicle accident trauma",
	"gsw":   "gunshot wound trauma",
	"od":    "overdose",
	"si":    "suicidal ideation",
	"tb":    "tuberculosis",
	"esrd":  "renal failure dialysis",
	"aki":   "renal failure",
	"fx":    "fracture",
	"peds":  "pediatric",
	"ob":    "obstetric",
}

// conditionTypos corrects spellings frequent in hurried triage notes.
var conditionTypos = map[string]string{
	"siezure":     "seizure",
	"seizur":      "seizure",
	"hemorrage":   "hemorrhage",
	"hemmorhage":  "hemorrhage",
	"diarreah":    "diarrhea",
	"pnuemonia":   "pneumonia",
	"stoke":       "stroke",
	"fractur":     "fracture",
	"abdomnal":    "abdominal",
	"respitory":   "respiratory",
	"respiritory": "respiratory",
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// NormalizeConditionText lowercases free-text condition descriptions,
// corrects common typos, and expands clinical abbreviations so downstream
// keyword matching sees canonical phrases.
func NormalizeConditionText(text string) string {
	lowered := strings.ToLower(text)

	return wordPattern.ReplaceAllStringFunc(lowered, func(word string) string {
		if corrected, ok := conditionTypos[word]; ok {
			word = corrected
		}
		if expanded, ok := clinicalAbbreviations[word]; ok {
			return expanded
		}
		return word
	})
}
