package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/purg-com/pleroma-iss/internal/color"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	resourceNamePattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	componentNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("css_color", func(fl validator.FieldLevel) bool {
			_, err := color.Parse(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("resource_name", func(fl validator.FieldLevel) bool {
			return resourceNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("component_name", func(fl validator.FieldLevel) bool {
			return componentNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}
