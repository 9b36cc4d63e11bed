// Package errors provides unified error handling for the data protection
// library. It implements a structured error type with machine-readable codes
// and errors.As-based matchers, so callers can branch on failure class
// without string matching.
//
// # Usage
//
//	protector, err := provider.CreateProtector("")
//	if errors.IsInvalidArgument(err) {
//	    // caller supplied an empty purpose
//	}
package errors
