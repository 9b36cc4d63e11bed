package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Kagamine/DataProtection/errors"
)

// structValidator builds the shared validator on first use. Tag name
// registration makes error messages report json field names.
var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
})

// Validate checks a struct against its `validate:"..."` tags and folds
// failures into a single INVALID_ARGUMENT AppError.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed")
	}

	fields := make([]FieldError, len(verrs))
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   toSnakeCase(fe.Field()),
			Message: tagMessage(fe),
		}
		parts[i] = fields[i].Field + ": " + fields[i].Message
	}

	appErr := errors.Validation(strings.Join(parts, "; "))
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

// jsonFieldName prefers the json tag for reporting, falling back to the
// snake_cased Go field name.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return toSnakeCase(fld.Name)
	}
	return name
}

// tagMessage maps a failed validate tag to a readable message.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "hostname_rfc1123":
		return "must be a valid hostname"
	}
	return "is invalid"
}

// toSnakeCase lowercases s, inserting an underscore before each interior
// upper-case letter. Initialisms split letter by letter; json tags cover
// the cases where that matters.
func toSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
