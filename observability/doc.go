// Package observability provides OpenTelemetry metrics and tracing
// for the data protection stack, plus health reporting types.
//
// InitMeter and InitTracer set up the global OTLP providers and are
// meant to be called once by the host application. The library itself
// only creates instruments: NewMetrics builds the dataprotection.*
// instrument set on whatever meter provider the host installed, and a
// nil *Metrics silently records nothing, so instrumentation can stay
// unconditional at call sites.
//
// Purpose strings, key material and payload contents are never
// recorded as metric attributes or span attributes.
package observability
