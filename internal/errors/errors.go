package errors

import (
	"errors"
	"fmt"
)

// CraftError is the structured error type for craft.
type CraftError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CraftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CraftError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *CraftError) Is(target error) bool {
	if t, ok := target.(*CraftError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *CraftError) WithDetail(key, value string) *CraftError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *CraftError) WithSuggestion(suggestion string) *CraftError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CraftError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *CraftError {
	return &CraftError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CraftError from an existing error.
func Wrap(code string, err error) *CraftError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *CraftError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *CraftError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *CraftError {
	return New(ErrCodeInvalidInput, message, cause)
}

// As finds the first CraftError in err's chain.
func As(err error) (*CraftError, bool) {
	var ce *CraftError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// GetCode extracts the error code from a CraftError in err's chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	ce, ok := As(err)
	return ok && ce.Severity == SeverityFatal
}
