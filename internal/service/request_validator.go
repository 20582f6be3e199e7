package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-mental-health-api/internal/models"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

// NewRequestValidator returns a validator that knows the dashboard tags:
// "dimension" for filter axes and "chart_kind" for chart names.
func NewRequestValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("dimension", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseDimension(fl.Field().String())
		return ok
	})
	validate.RegisterValidation("chart_kind", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseChartKind(fl.Field().String())
		return ok
	})
	return validate
}

// ValidateRequest checks req and converts failures into a validation error
// naming the offending fields.
func ValidateRequest(validate *validator.Validate, req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.WrapAs(err, appErrors.ErrValidation)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return appErrors.Clone(appErrors.ErrValidation, strings.Join(msgs, "; "))
}
