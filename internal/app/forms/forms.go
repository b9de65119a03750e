// Package forms turns loosely typed request input into typed commands. It is the only
// place where strings become numbers; every failure comes back as an
// apperrors validation error with per-field messages, never a panic.
package forms

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
	"github.com/consolahealth/studenthealth/internal/pkg/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report the input field name rather than the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("field"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := validation.Register(v); err != nil {
		panic(err)
	}
	return v
}

// fieldErrors collects per-field messages for one input
type fieldErrors map[string]string

func (fe fieldErrors) add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

func (fe fieldErrors) addValidation(err error) {
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fe.add("_", err.Error())
		return
	}
	for _, e := range verrs {
		fe.add(e.Field(), formatValidationError(e))
	}
}

func (fe fieldErrors) err(message string) error {
	if len(fe) == 0 {
		return nil
	}
	return apperrors.NewValidationError(message, fe)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "student_number":
		return e.Field() + " must be a student number"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// parseFloat converts a decimal field. Blank input yields def; non-numeric or
// non-finite input is recorded as a field error.
func parseFloat(fe fieldErrors, field, raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fe.add(field, fmt.Sprintf("%s must be a number", field))
		return def
	}
	return v
}

// parseInt converts an integer field of the given bit size with the same
// blank/invalid handling as parseFloat. Values that do not fit are field errors.
func parseInt(fe fieldErrors, field, raw string, def int64, bitSize int) int64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, bitSize)
	if errors.Is(err, strconv.ErrRange) {
		fe.add(field, fmt.Sprintf("%s is out of range", field))
		return def
	}
	if err != nil {
		fe.add(field, fmt.Sprintf("%s must be a whole number", field))
		return def
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
