package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/consolahealth/studenthealth/internal/pkg/validation"
)

// RegisterBindingValidators installs the custom tags on gin's binding validator so
// query structs can use them in `binding` tags.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validation.Register(v)
}

// BindingErrorDetails turns binding failures into per-field messages
func BindingErrorDetails(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = formatValidationError(e)
	}
	return fields
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "sort_key":
		return e.Field() + " must be a comma separated list of columns, each optionally prefixed with '-'"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
