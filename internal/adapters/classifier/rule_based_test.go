package classifier

import (
	"context"
	"testing"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, condition string, considerations ...string) *entities.ClassifierResult {
	t.Helper()
	result, err := NewRuleBased().Classify(context.Background(), &entities.PatientProfile{
		SeverityTier:        2,
		PrimaryCondition:    condition,
		FirstConsiderations: considerations,
	})
	require.NoError(t, err)
	return result
}

func TestClassify_CardiacKeywords(t *testing.T) {
	result := classify(t, "sudden crushing chest pain")

	assert.Contains(t, result.Filter.AdmissionCategory, "O015")
	assert.Contains(t, result.Filter.SevereConditionCategory, "Y0010")
	assert.Equal(t, []string{entities.CodeGenericBed}, result.Filter.BedCategory)
}

func TestClassify_TraumaSelectsTraumaBay(t *testing.T) {
	result := classify(t, "multiple trauma after motor vehicle collision")

	assert.Contains(t, result.Filter.BedCategory, "O060")
	assert.Contains(t, result.Filter.AdmissionCategory, "O014")
}

func TestClassify_AbbreviationsExpanded(t *testing.T) {
	result := classify(t, "suspected MI")

	assert.Contains(t, result.Filter.AdmissionCategory, "O015")
	assert.Contains(t, result.Filter.SevereConditionCategory, "Y0010")
}

func TestClassify_ConsiderationsSearched(t *testing.T) {
	result := classify(t, "altered mental status", "possible stroke")

	assert.Contains(t, result.Filter.SevereConditionCategory, "Y0020")
}

func TestClassify_MultipleRulesCombine(t *testing.T) {
	result := classify(t, "pediatric seizure")

	assert.Contains(t, result.Filter.BedCategory, "O002")
	assert.Contains(t, result.Filter.AdmissionCategory, "O011")
}

func TestClassify_NoMatchDefaultsToGenericBed(t *testing.T) {
	result := classify(t, "mild ankle sprain")

	assert.Equal(t, []string{entities.CodeGenericBed}, result.Filter.BedCategory)
	assert.Empty(t, result.Filter.AdmissionCategory)
	assert.Empty(t, result.Filter.SevereConditionCategory)
	assert.Empty(t, result.Filter.EquipmentCategory)
	assert.NotEmpty(t, result.Reasoning)
}

func TestClassify_NoDuplicateCodes(t *testing.T) {
	result := classify(t, "trauma trauma gunshot wound stab wound")

	seen := map[string]bool{}
	for _, code := range result.Filter.AdmissionCategory {
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
