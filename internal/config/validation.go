package config

import (
	"errors"
	"fmt"
	"strings"

	"interact/internal/pattern"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the offending field names in order.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, len(e))
	for i, err := range e {
		fields[i] = err.Field
	}
	return fields
}

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidateConfig checks the configuration against the schema, then checks
// what the schema cannot express: cross-field requirements, gesture name
// uniqueness and pattern syntax.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateSchema(c)...)
	errs = append(errs, validateLogging(&c.Logging)...)
	errs = append(errs, validateJournal(&c.Journal)...)
	errs = append(errs, validateGestures(c.Gestures)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors
	if (l.Output == "file" || l.Output == "both") && l.FilePath == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file_path",
			Message: "file path is required when output is '" + l.Output + "'",
		})
	}
	return errs
}

func validateJournal(j *JournalConfig) ValidationErrors {
	var errs ValidationErrors
	if j.Enabled && j.Path == "" {
		errs = append(errs, *RequiredFieldError("journal.path"))
	}
	return errs
}

func validateGestures(gestures []GestureConfig) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]int, len(gestures))

	for i, g := range gestures {
		prefix := fmt.Sprintf("gestures.%d", i)

		if g.Name != "" {
			if first, dup := seen[g.Name]; dup {
				errs = append(errs, ValidationError{
					Field:   prefix + ".name",
					Message: fmt.Sprintf("duplicate gesture name %q (first declared at gestures.%d)", g.Name, first),
				})
			} else {
				seen[g.Name] = i
			}
		}

		if g.Pattern == "" {
			continue
		}
		if err := pattern.Check(g.Pattern); err != nil {
			errs = append(errs, ValidationError{
				Field:   prefix + ".pattern",
				Message: err.Error(),
			})
		}
	}
	return errs
}

// RequiredFieldError creates a validation error for a required field.
func RequiredFieldError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: "required field is missing",
	}
}
