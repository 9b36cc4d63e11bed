package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Kagamine/DataProtection/errors"
)

// FieldError is one failed check, keyed by the field it applies to.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors across a chain of checks. A zero
// check chain validates cleanly.
type Validator struct {
	errs []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failed check for field.
func (v *Validator) AddError(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// check records message for field unless ok holds. Every fluent check
// funnels through here.
func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required fails when value is empty or whitespace.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "is required")
}

// RequiredUUID fails unless value parses to a non-nil UUID.
func (v *Validator) RequiredUUID(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
		return v
	}
	id, err := uuid.Parse(value)
	switch {
	case err != nil:
		v.AddError(field, "must be a valid UUID")
	case id == uuid.Nil:
		v.AddError(field, "must not be empty")
	}
	return v
}

// OptionalUUID fails only when a non-empty value does not parse.
func (v *Validator) OptionalUUID(field, value string) *Validator {
	if value == "" {
		return v
	}
	_, err := uuid.Parse(value)
	return v.check(err == nil, field, "must be a valid UUID")
}

// MaxLength fails when value is longer than maxLen bytes.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	return v.check(len(value) <= maxLen, field,
		fmt.Sprintf("must be %d characters or less", maxLen))
}

// MinLength fails when value is shorter than minLen bytes.
func (v *Validator) MinLength(field, value string, minLen int) *Validator {
	return v.check(len(value) >= minLen, field,
		fmt.Sprintf("must be at least %d characters", minLen))
}

// Range fails when value falls outside [minVal, maxVal].
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	return v.check(value >= minVal && value <= maxVal, field,
		fmt.Sprintf("must be between %d and %d", minVal, maxVal))
}

// Pattern fails when a non-empty value does not match pattern. An invalid
// pattern counts as a mismatch. Use Required for presence.
func (v *Validator) Pattern(field, value, pattern string) *Validator {
	if value == "" {
		return v
	}
	re, err := regexp.Compile(pattern)
	return v.check(err == nil && re.MatchString(value), field,
		"does not match required format")
}

// OneOf fails when a non-empty value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	return v.check(slices.Contains(allowed, value), field,
		"must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message for field when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	return v.check(condition, field, message)
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Errors returns the accumulated field errors.
func (v *Validator) Errors() []FieldError {
	return v.errs
}

// Validate folds the accumulated errors into a single INVALID_ARGUMENT
// AppError, or nil when every check passed. Callers returning the result
// as a plain error must guard against the typed nil:
//
//	if err := v.Validate(); err != nil {
//		return err
//	}
//	return nil
func (v *Validator) Validate() *errors.AppError {
	if len(v.errs) == 0 {
		return nil
	}

	parts := make([]string, len(v.errs))
	for i, fe := range v.errs {
		parts[i] = fe.Field + ": " + fe.Message
	}

	err := errors.Validation(strings.Join(parts, "; "))
	err.Details = map[string]any{"fields": v.errs}
	return err
}

// Required checks a single field and returns an error when it is empty.
func Required(field, value string) error {
	if err := New().Required(field, value).Validate(); err != nil {
		return err
	}
	return nil
}

// ValidateUUID parses a UUID string, such as a key ID taken from a
// request or a log line.
func ValidateUUID(field, value string) (uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return uuid.Nil, errors.Validation(field + " is required")
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.Validation(field + " must be a valid UUID")
	}

	return id, nil
}
