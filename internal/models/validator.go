package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StructValidator validates request and model structs against their
// declared tags
type StructValidator struct {
	validator *validator.Validate
}

// NewStructValidator creates a new struct validator
func NewStructValidator() *StructValidator {
	v := validator.New()

	// Use json tags for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &StructValidator{validator: v}
}

// ValidateStruct validates a struct and returns detailed error information
func (sv *StructValidator) ValidateStruct(s interface{}) error {
	if err := sv.validator.Struct(s); err != nil {
		var messages []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s",
				fieldErr.Field(),
				errorMessage(fieldErr),
			))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
	}
	return nil
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must have at least %s items or characters", err.Param())
	case "max":
		return fmt.Sprintf("must have at most %s items or characters", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", err.Tag())
	}
}
