package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// ValidateSettings checks settings against their schema tags.
func ValidateSettings(s *Settings) error {
	if s == nil {
		return isserrors.NewValidationError("settings", "settings are nil", nil)
	}
	return ValidateStruct(s)
}

// ValidateStruct runs the shared validator and maps the first failure to a
// ValidationError named after the yaml-ish field path.
func ValidateStruct(v any) error {
	return convertValidationError(validatorInstance().Struct(v))
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return isserrors.NewValidationError(field, msg, err)
	}

	return isserrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
