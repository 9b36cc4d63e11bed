package errors

import (
	"fmt"
)

// AppError is the error type every package in this module returns. The
// code drives programmatic handling, the message is for humans, and
// details carry structured context into logs.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	// Cause feeds errors.Is and errors.As chains without leaking the
	// underlying error into serialized output.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += " (cause: " + e.Cause.Error() + ")"
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail entry and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	e.ensureDetails()[key] = value
	return e
}

// WithDetails merges details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	dst := e.ensureDetails()
	for k, v := range details {
		dst[k] = v
	}
	return e
}

func (e *AppError) ensureDetails() map[string]any {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	return e.Details
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// InvalidArgument creates a new AppError for a missing or malformed input.
func InvalidArgument(argument, reason string) *AppError {
	details := make(map[string]any)
	if argument != "" {
		details["argument"] = argument
	}
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("Invalid argument: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: message,
	}
}

// InvalidConfig creates a new AppError for a configuration that failed validation.
func InvalidConfig(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("Invalid configuration: %s", reason),
	}
}

// CryptoUnavailable creates a new AppError for a cryptographic primitive that
// could not be initialized. This is only raised at construction time and is
// unrecoverable; callers must not retry.
func CryptoUnavailable(primitive string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCryptoUnavailable, Message: fmt.Sprintf("Cryptographic primitive unavailable: %s", primitive),
		Details: map[string]any{"primitive": primitive}, Cause: cause,
	}
}

// KeyNotFound creates a new AppError for a payload whose key identity
// cannot be resolved by the current key ring.
func KeyNotFound(keyID string) *AppError {
	return &AppError{
		Code: ErrCodeKeyNotFound, Message: "The payload references a key that is not in the key ring.",
		Details: map[string]any{"key_id": keyID},
	}
}

// KeyRevoked creates a new AppError for a payload whose key resolved but is revoked.
func KeyRevoked(keyID string) *AppError {
	return &AppError{
		Code: ErrCodeKeyRevoked, Message: "The payload references a revoked key.",
		Details: map[string]any{"key_id": keyID},
	}
}

// InvalidPayload creates a new AppError for a malformed protected payload.
func InvalidPayload(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPayload, Message: fmt.Sprintf("Invalid protected payload: %s", reason),
	}
}

// ProtectFailed creates a new AppError for a failed protect operation.
func ProtectFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeProtectFailed, Message: "The payload could not be protected.",
		Cause: cause,
	}
}

// UnprotectFailed creates a new AppError for a failed unprotect operation.
// Deliberately carries no distinction between tampering, a wrong purpose,
// and a foreign key so callers cannot build a decryption oracle from it.
func UnprotectFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnprotectFailed, Message: "The payload could not be unprotected.",
		Cause: cause,
	}
}
