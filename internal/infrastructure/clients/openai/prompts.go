package openai

import (
	"fmt"
	"strings"

	"github.com/emernav/backend/internal/domain/entities"
)

// classifierSystemPrompt instructs the model to select facility capability
// codes for a patient. The code list is generated from the vocabulary so the
// prompt never drifts from what the registry accepts.
func classifierSystemPrompt() string {
	var b strings.Builder

	b.WriteString("You are an emergency medicine triage assistant. ")
	b.WriteString("Given a patient profile, select the facility capability codes the patient requires. ")
	b.WriteString("Use only codes from the lists below. Do not invent codes.\n\n")

	writeCodeSection(&b, "bedCategory (emergency bay type, pick at least one)", entities.CategoryBed)
	writeCodeSection(&b, "admissionCategory (specialty admission capability)", entities.CategoryAdmission)
	writeCodeSection(&b, "severeConditionCategory (severe condition treatment capability)", entities.CategorySevereCondition)
	writeCodeSection(&b, "equipmentCategory (equipment availability)", entities.CategoryEquipment)

	b.WriteString("Guidelines:\n")
	b.WriteString("- bedCategory: choose the bay type matching the patient's age and presentation. Default to O001 when unsure.\n")
	b.WriteString("- admissionCategory: include a specialty only when the presentation clearly suggests admission to it.\n")
	b.WriteString("- severeConditionCategory: include only for conditions requiring immediate definitive treatment capability.\n")
	b.WriteString("- equipmentCategory: include only equipment the initial workup or treatment plainly needs.\n")
	b.WriteString("- Prefer fewer codes. Every added code narrows the set of eligible facilities.\n\n")

	b.WriteString("Respond with a single JSON object, no markdown, in this exact shape:\n")
	b.WriteString(`{"bedCategory":["O001"],"admissionCategory":[],"severeConditionCategory":[],"equipmentCategory":[],"reasoning":"one short sentence"}`)

	return b.String()
}

func writeCodeSection(b *strings.Builder, heading string, category entities.CapabilityCategory) {
	b.WriteString(heading)
	b.WriteString(":\n")
	for _, code := range entities.VocabularyCodes(category) {
		fmt.Fprintf(b, "  %s: %s\n", code, entities.CodeName(code))
	}
	b.WriteString("\n")
}

// buildPatientPrompt renders the patient profile as the user message.
func buildPatientPrompt(profile *entities.PatientProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Severity tier (1 most urgent, 5 least): %d\n", profile.SeverityTier)
	fmt.Fprintf(&b, "Primary condition: %s\n", profile.PrimaryCondition)

	if len(profile.FirstConsiderations) > 0 {
		fmt.Fprintf(&b, "Primary considerations: %s\n", strings.Join(profile.FirstConsiderations, ", "))
	}
	if len(profile.SecondConsiderations) > 0 {
		fmt.Fprintf(&b, "Secondary considerations: %s\n", strings.Join(profile.SecondConsiderations, ", "))
	}
	if profile.Sex != "" {
		fmt.Fprintf(&b, "Sex: %s\n", profile.Sex)
	}
	if profile.AgeBracket != "" {
		fmt.Fprintf(&b, "Age bracket: %s\n", profile.AgeBracket)
	}

	return b.String()
}
