package errors

import (
	stderrors "errors"
)

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsInvalidArgument reports whether err represents a missing or malformed input.
func IsInvalidArgument(err error) bool {
	return HasCode(err, ErrCodeInvalidArgument)
}

// IsInvalidConfig reports whether err represents a configuration validation failure.
func IsInvalidConfig(err error) bool {
	return HasCode(err, ErrCodeInvalidConfig)
}

// IsCryptoUnavailable reports whether err represents an unavailable
// cryptographic primitive.
func IsCryptoUnavailable(err error) bool {
	return HasCode(err, ErrCodeCryptoUnavailable)
}

// IsKeyNotFound reports whether err represents an unresolvable key identity.
func IsKeyNotFound(err error) bool {
	return HasCode(err, ErrCodeKeyNotFound)
}

// IsKeyRevoked reports whether err represents a revoked key.
func IsKeyRevoked(err error) bool {
	return HasCode(err, ErrCodeKeyRevoked)
}

// IsInvalidPayload reports whether err represents malformed payload framing.
func IsInvalidPayload(err error) bool {
	return HasCode(err, ErrCodeInvalidPayload)
}

// IsUnprotectFailed reports whether err represents a failed authentication
// or decryption.
func IsUnprotectFailed(err error) bool {
	return HasCode(err, ErrCodeUnprotectFailed)
}
