// Package validation provides input validation utilities.
//
// It supports both struct tag validation (using the validator
// library) and programmatic validation with error collection. Struct
// tag validation suits option structs; the programmatic form suits
// per-call inputs.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Name   string `validate:"required,max=64"`
//	    MaxAge int    `validate:"min=0"`
//	}
//	err := validation.Validate(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("name", name).MaxLength("name", name, 64)
//	err := v.Validate()
package validation
