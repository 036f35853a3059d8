package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabularyCodes_CategorySizes(t *testing.T) {
	assert.Len(t, VocabularyCodes(CategoryBed), 9)
	assert.Len(t, VocabularyCodes(CategoryAdmission), 28)
	assert.Len(t, VocabularyCodes(CategorySevereCondition), 27)
	assert.Len(t, VocabularyCodes(CategoryEquipment), 10)
}

func TestVocabularyCodes_Sorted(t *testing.T) {
	codes := VocabularyCodes(CategoryAdmission)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}
}

func TestIsKnownCode(t *testing.T) {
	assert.True(t, IsKnownCode(CategoryBed, "O001"))
	assert.True(t, IsKnownCode(CategorySevereCondition, "Y0010"))
	assert.False(t, IsKnownCode(CategoryBed, "Y0010"), "codes are category-scoped")
	assert.False(t, IsKnownCode(CategoryEquipment, "X999"))
}

func TestCodeName_UnknownFallsBackToCode(t *testing.T) {
	assert.Equal(t, "general emergency bay", CodeName("O001"))
	assert.Equal(t, "X999", CodeName("X999"))
}

func TestSanitize_DropsUnknownAndDuplicates(t *testing.T) {
	filter := CapabilityFilterRequest{
		BedCategory:             []string{"O001", "O001", "BOGUS"},
		SevereConditionCategory: []string{"Y0010", "O001"},
	}

	clean, rejected := filter.Sanitize()

	assert.Equal(t, []string{"O001"}, clean.BedCategory)
	assert.Equal(t, []string{"Y0010"}, clean.SevereConditionCategory)
	assert.ElementsMatch(t, []string{"BOGUS", "O001"}, rejected)
}

func TestSanitize_PreservesFirstSeenOrder(t *testing.T) {
	filter := CapabilityFilterRequest{
		AdmissionCategory: []string{"O017", "O006", "O017", "O005"},
	}

	clean, rejected := filter.Sanitize()

	assert.Equal(t, []string{"O017", "O006", "O005"}, clean.AdmissionCategory)
	assert.Empty(t, rejected)
}

func TestSanitize_DoesNotMutateOriginal(t *testing.T) {
	filter := CapabilityFilterRequest{BedCategory: []string{"O001", "BOGUS"}}

	_, _ = filter.Sanitize()

	assert.Equal(t, []string{"O001", "BOGUS"}, filter.BedCategory)
}

func TestWithoutSevereCondition(t *testing.T) {
	filter := CapabilityFilterRequest{
		BedCategory:             []string{"O001"},
		AdmissionCategory:       []string{"O006"},
		SevereConditionCategory: []string{"Y0010"},
	}

	relaxed := filter.WithoutSevereCondition()

	assert.Nil(t, relaxed.SevereConditionCategory)
	assert.Equal(t, filter.AdmissionCategory, relaxed.AdmissionCategory)
	assert.NotNil(t, filter.SevereConditionCategory, "original must be untouched")
}

func TestWithoutAdmissionAndSevereCondition(t *testing.T) {
	filter := CapabilityFilterRequest{
		BedCategory:             []string{"O001"},
		AdmissionCategory:       []string{"O006"},
		SevereConditionCategory: []string{"Y0010"},
		EquipmentCategory:       []string{"O027"},
	}

	relaxed := filter.WithoutAdmissionAndSevereCondition()

	assert.Nil(t, relaxed.AdmissionCategory)
	assert.Nil(t, relaxed.SevereConditionCategory)
	assert.Equal(t, []string{"O001"}, relaxed.BedCategory)
	assert.Equal(t, []string{"O027"}, relaxed.EquipmentCategory)
}

func TestRequested(t *testing.T) {
	filter := CapabilityFilterRequest{BedCategory: []string{"O001"}}

	assert.True(t, filter.Requested(CategoryBed))
	assert.False(t, filter.Requested(CategoryAdmission))
}
