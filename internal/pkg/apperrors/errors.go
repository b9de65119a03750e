package apperrors

import "errors"

// Common errors
var (
	ErrConflict = errors.New("conflict")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student Errors
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrStudentIDAlreadyExists = errors.New("student ID already exists")
)

// Health record errors
var (
	ErrHealthRecordNotFound = errors.New("health record not found")
)

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation failure carrying per-field messages.
func NewValidationError(message string, fields map[string]string) *CustomError {
	details := make(map[string]interface{}, len(fields))
	for field, msg := range fields {
		details[field] = msg
	}
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: details,
	}
}

// IsNotFound reports whether err is any of the not-found sentinels
func IsNotFound(err error) bool {
	return Is(err, ErrStudentNotFound, ErrHealthRecordNotFound)
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// DetailsOf extracts the Details map from a CustomError anywhere in err's chain.
func DetailsOf(err error) map[string]interface{} {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}
