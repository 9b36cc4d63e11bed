package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidArgument indicates a required string or identity input
	// was empty or malformed (e.g. an empty purpose name).
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig indicates the library configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Construction errors
const (
	// ErrCodeCryptoUnavailable indicates the secure random source or a cipher
	// primitive could not be initialized. Raised only at construction and
	// treated as fatal: a process without working crypto cannot continue.
	ErrCodeCryptoUnavailable ErrorCode = "CRYPTO_UNAVAILABLE"
)

// Key resolution errors
const (
	// ErrCodeKeyNotFound indicates a payload references a key identity the
	// ring cannot resolve. The referenced ciphertext is undecipherable.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"
	// ErrCodeKeyRevoked indicates the payload's key resolved but is revoked.
	ErrCodeKeyRevoked ErrorCode = "KEY_REVOKED"
)

// Payload errors
const (
	// ErrCodeInvalidPayload indicates the payload framing is malformed:
	// wrong magic, unsupported version or algorithm, or truncated data.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	// ErrCodeProtectFailed indicates the encryption path failed.
	ErrCodeProtectFailed ErrorCode = "PROTECT_FAILED"
	// ErrCodeUnprotectFailed indicates authentication or decryption failed.
	// Tampered payloads, wrong purposes, and foreign keys all land here.
	ErrCodeUnprotectFailed ErrorCode = "UNPROTECT_FAILED"
)

// fatalCodes marks codes whose failures cannot be recovered by the caller.
// Everything else is surfaced to the immediate caller and handled there;
// nothing in this library retries.
var fatalCodes = map[ErrorCode]bool{
	ErrCodeCryptoUnavailable: true,
}

// IsFatalCode returns true if the error code indicates an unrecoverable failure.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
