package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Level string   `json:"education_level" validate:"required,oneof=high_school diploma bachelor master phd"`
	GPA   *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()
	gpa := 4.5

	err := v.ValidateStruct(sample{Level: "kindergarten", GPA: &gpa})
	require.Error(t, err)

	errs := FormatValidationErrors(err)
	assert.Contains(t, errs["education_level"], "must be one of")
	assert.Contains(t, errs["gpa"], "less than or equal to 4")

	ok := 3.0
	assert.NoError(t, v.ValidateStruct(sample{Level: "phd", GPA: &ok}))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hel\x00lo \n"))
}
