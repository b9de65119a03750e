package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Student number: digits only, fits the integer column
	StudentNumberPattern = `^\d{1,9}$`

	// Sort parameter: up to four comma separated column names, each with an optional
	// leading '-' for descending
	SortKeyPattern = `^-?[a-z_]{1,32}(,-?[a-z_]{1,32}){0,3}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	StudentNumber *regexp.Regexp
	SortKey       *regexp.Regexp
}{
	StudentNumber: regexp.MustCompile(StudentNumberPattern),
	SortKey:       regexp.MustCompile(SortKeyPattern),
}

// Register installs the custom tags (student_number, sort_key) on v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("student_number", matches(CompiledPatterns.StudentNumber)); err != nil {
		return err
	}
	return v.RegisterValidation("sort_key", matches(CompiledPatterns.SortKey))
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
