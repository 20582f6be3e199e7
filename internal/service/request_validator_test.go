package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-mental-health-api/internal/dto"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

func TestValidateRequestDimensionTag(t *testing.T) {
	validate := NewRequestValidator()

	require.NoError(t, ValidateRequest(validate, dto.ToggleSelectionRequest{Dimension: "age", Value: "19"}))

	err := ValidateRequest(validate, dto.ToggleSelectionRequest{Dimension: "gender", Value: "Male"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Dimension failed dimension")

	err = ValidateRequest(validate, dto.NodeSelectRequest{Category: "condition"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "Name failed required")
}

func TestValidateRequestChartKindTag(t *testing.T) {
	type exportQuery struct {
		Kind string `validate:"required,chart_kind"`
	}
	validate := NewRequestValidator()
	assert.NoError(t, ValidateRequest(validate, exportQuery{Kind: "cgpa"}))
	assert.Error(t, ValidateRequest(validate, exportQuery{Kind: "radar"}))
}
