package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"fieldreports/models"
)

var (
	ErrNotFound        = errors.New("report not found")
	ErrForbidden       = errors.New("access denied")
	ErrUnauthenticated = errors.New("login required")
	ErrUnknownTool     = errors.New("unknown tool")

	ErrLastReading     = models.ErrLastReading
	ErrReadingNotFound = models.ErrReadingNotFound
)

// ValidationError reports a missing or invalid input. Fields maps the input
// name to its message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// First returns the message of the alphabetically first failing field.
func (e *ValidationError) First() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return e.Fields[names[0]]
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// asValidationError converts an ozzo-validation result into a ValidationError.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	ve := &ValidationError{Fields: make(map[string]string, len(errs))}
	for field, fieldErr := range errs {
		ve.Fields[field] = fieldErr.Error()
	}
	return ve
}

// TransientError wraps a storage failure that may succeed when retried.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError, or returns nil for a nil err.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

const projectRequired = "Please enter project name and stage"

// ValidateProject checks the report header before a save or update.
func ValidateProject(projectName, stage string) error {
	return asValidationError(validation.Errors{
		"projectName": validation.Validate(strings.TrimSpace(projectName), validation.Required.Error(projectRequired)),
		"stage":       validation.Validate(strings.TrimSpace(stage), validation.Required.Error(projectRequired)),
	}.Filter())
}
