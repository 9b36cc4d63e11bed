package logger

import (
	"time"
)

// Standard field key constants for structured logging.
// Key material, KDKs, plaintexts, and purpose strings are never logged;
// only algorithm names, identities, and counts appear in log fields.
const (
	FieldComponent    = "component"
	FieldTraceID      = "trace_id"
	FieldSpanID       = "span_id"
	FieldRequestID    = "request_id"
	FieldOperation    = "operation"
	FieldStatus       = "status"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
	FieldPlatform     = "platform"
	FieldAlgorithm    = "algorithm"
	FieldKeyID        = "key_id"
	FieldPurposeCount = "purpose_count"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "protect", "bytes", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for len(kvs) >= 2 {
		if key, ok := kvs[0].(string); ok {
			m[key] = kvs[1]
		}
		kvs = kvs[2:]
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// MergeWithError returns a copy of fields with the error added, leaving
// the original map untouched.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[FieldError] = err.Error()
	return out
}
