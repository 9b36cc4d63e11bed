package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Kagamine/DataProtection/errors"
	"github.com/Kagamine/DataProtection/security"
	"github.com/Kagamine/DataProtection/security/tlstest"
)

// recordingTracer installs an in-memory exporter as the global tracer
// provider so spans actually record, and restores nothing: tests that
// need a no-op provider install their own.
func recordingTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)
	return exporter
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("protector-host")

	if cfg.ServiceName != "protector-host" {
		t.Errorf("ServiceName = %q, want protector-host", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("Endpoint = %q, want localhost:4318", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v, want 1.0", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("development default should allow plain HTTP")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("protector-host")

	if cfg.ServiceName != "protector-host" {
		t.Errorf("ServiceName = %q, want protector-host", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("Interval = %v, want 15s", cfg.Interval)
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	// Recorders only need to not panic against a noop meter.
	metrics.RecordOperation("protect", "aes-256-gcm", 42, 50*time.Millisecond)
	metrics.RecordOperation("unprotect", "aes-256-cbc-hmac-sha256", 42, 10*time.Millisecond)
	metrics.RecordProtectorCreated(2)
	metrics.RecordError("unprotect", "UNPROTECT_FAILED")
}

func TestMetricsNilReceiver(t *testing.T) {
	var metrics *Metrics

	metrics.RecordOperation("protect", "aes-256-gcm", 1, time.Millisecond)
	metrics.RecordProtectorCreated(1)
	metrics.RecordError("protect", "PROTECT_FAILED")
}

func TestNewDefaultMetrics(t *testing.T) {
	metrics, err := NewDefaultMetrics()
	if err != nil {
		t.Fatalf("NewDefaultMetrics() error = %v", err)
	}
	if metrics == nil {
		t.Fatal("NewDefaultMetrics() = nil")
	}
}

func TestNewServiceHealth(t *testing.T) {
	sh := NewServiceHealth("dataprotection", "1.0.0")

	if sh.Service != "dataprotection" || sh.Version != "1.0.0" {
		t.Errorf("got %s/%s, want dataprotection/1.0.0", sh.Service, sh.Version)
	}
	if sh.Status != HealthStatusUp {
		t.Errorf("initial status = %s, want up", sh.Status)
	}
}

func TestServiceHealthKeepsWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []HealthStatus
		want     HealthStatus
	}{
		{"all up", []HealthStatus{HealthStatusUp, HealthStatusUp}, HealthStatusUp},
		{"one degraded", []HealthStatus{HealthStatusUp, HealthStatusDegraded}, HealthStatusDegraded},
		{"one down", []HealthStatus{HealthStatusUp, HealthStatusDown}, HealthStatusDown},
		{"degraded after down", []HealthStatus{HealthStatusDown, HealthStatusDegraded}, HealthStatusDown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sh := NewServiceHealth("svc", "1.0.0")
			for i, status := range tc.statuses {
				sh.AddComponent(Health{Name: fmt.Sprintf("c%d", i), Status: status})
			}
			if sh.Status != tc.want {
				t.Errorf("aggregate status = %s, want %s", sh.Status, tc.want)
			}
			if len(sh.Components) != len(tc.statuses) {
				t.Errorf("recorded %d components, want %d", len(sh.Components), len(tc.statuses))
			}
		})
	}
}

func TestHealthFromError(t *testing.T) {
	if h := HealthFromError("provider", nil); h.Status != HealthStatusUp {
		t.Errorf("status for nil error = %s, want up", h.Status)
	}

	h := HealthFromError("provider", fmt.Errorf("probe failed"))
	if h.Status != HealthStatusDown {
		t.Errorf("status = %s, want down", h.Status)
	}
	if h.Message != "probe failed" {
		t.Errorf("message = %q, want the probe error", h.Message)
	}
}

func TestHealthStatusStrings(t *testing.T) {
	want := map[HealthStatus]string{
		HealthStatusUp:       "up",
		HealthStatusDown:     "down",
		HealthStatusDegraded: "degraded",
	}
	for status, s := range want {
		if string(status) != s {
			t.Errorf("status = %q, want %q", status, s)
		}
	}
}

func TestNamedTracerAndMeter(t *testing.T) {
	if Tracer("keyring") == nil {
		t.Error("Tracer() = nil")
	}
	if Meter("keyring") == nil {
		t.Error("Meter() = nil")
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "protect")
	defer span.End()

	if span == nil || ctx == nil {
		t.Fatal("StartSpan returned nil span or context")
	}
	if got := SpanFromContext(ctx); got != span {
		t.Error("SpanFromContext should return the started span")
	}
}

func TestSpanFromContextWithoutSpan(t *testing.T) {
	// A bare context yields a usable no-op span, never nil.
	if span := SpanFromContext(context.Background()); span == nil {
		t.Fatal("SpanFromContext() = nil")
	}
}

func TestSetSpanAttributeTypes(t *testing.T) {
	exporter := recordingTracer(t)

	ctx, span := StartSpan(context.Background(), "attrs")
	SetSpanAttribute(ctx, "string", "value")
	SetSpanAttribute(ctx, "int", 42)
	SetSpanAttribute(ctx, "int64", int64(100))
	SetSpanAttribute(ctx, "float", 0.25)
	SetSpanAttribute(ctx, "bool", true)
	SetSpanAttribute(ctx, "slice", []string{"a", "b"})
	SetSpanAttribute(ctx, "dropped", struct{}{})
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	if got := len(spans[0].Attributes); got != 6 {
		t.Errorf("span carries %d attributes, want 6 with the unsupported type dropped", got)
	}
}

func TestSetSpanAttributeWithoutSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
}

func TestSetSpanError(t *testing.T) {
	exporter := recordingTracer(t)

	ctx, span := StartSpan(context.Background(), "failing")
	SetSpanError(ctx, fmt.Errorf("unprotect rejected"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("span carries %d events, want the recorded error", len(spans[0].Events))
	}
}

func TestSetSpanErrorWithoutSpan(t *testing.T) {
	SetSpanError(context.Background(), fmt.Errorf("no span"))
}

func TestSpanNames(t *testing.T) {
	want := map[string]string{
		SpanProtect:         "dataprotection.protect",
		SpanUnprotect:       "dataprotection.unprotect",
		SpanCreateProtector: "dataprotection.create_protector",
	}
	for got, expected := range want {
		if got != expected {
			t.Errorf("span name = %q, want %q", got, expected)
		}
	}
}

func TestAttributeKeys(t *testing.T) {
	if AttrServiceName != "service.name" {
		t.Errorf("AttrServiceName = %q", AttrServiceName)
	}
	if AttrAlgorithm != "dataprotection.algorithm" {
		t.Errorf("AttrAlgorithm = %q", AttrAlgorithm)
	}
	if AttrKeyID != "dataprotection.key_id" {
		t.Errorf("AttrKeyID = %q", AttrKeyID)
	}
}

func TestInitTracer(t *testing.T) {
	cfg := TracerConfig{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		SampleRate:     1.0,
	}

	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Skipf("InitTracer unavailable here: %v", err)
	}
	defer tp.Shutdown(context.Background())
}

func TestInitTracerSamplingRates(t *testing.T) {
	for _, rate := range []float64{1.0, 0.5, 0.0} {
		t.Run(fmt.Sprintf("rate %v", rate), func(t *testing.T) {
			cfg := TracerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				Endpoint:       "localhost:4318",
				Insecure:       true,
				SampleRate:     rate,
			}
			tp, err := InitTracer(context.Background(), cfg)
			if err != nil {
				t.Skipf("InitTracer unavailable here: %v", err)
			}
			defer tp.Shutdown(context.Background())
		})
	}
}

func TestInitMeter(t *testing.T) {
	cfg := MeterConfig{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}

	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Skipf("InitMeter unavailable here: %v", err)
	}
	defer mp.Shutdown(context.Background())
}

func TestInitMeterWithTLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	cfg := MeterConfig{
		ServiceName: "test-service",
		Environment: "test",
		Endpoint:    "localhost:4318",
		TLS: &security.TLSConfig{
			CAFile:   certs.CAFile,
			CertFile: certs.CertFile,
			KeyFile:  certs.KeyFile,
		},
		Interval: 15 * time.Second,
	}

	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Skipf("InitMeter unavailable here: %v", err)
	}
	defer mp.Shutdown(context.Background())
}

func TestInitMeterBadTLS(t *testing.T) {
	cfg := MeterConfig{
		ServiceName: "test-service",
		Endpoint:    "localhost:4318",
		TLS:         &security.TLSConfig{CAFile: "/nonexistent/ca.pem"},
	}

	if _, err := InitMeter(context.Background(), cfg); !errors.IsInvalidConfig(err) {
		t.Errorf("InitMeter() error = %v, want invalid-config", err)
	}
}

func TestInitTracerBadTLS(t *testing.T) {
	cfg := TracerConfig{
		ServiceName: "test-service",
		Endpoint:    "localhost:4318",
		TLS:         &security.TLSConfig{CAFile: "/nonexistent/ca.pem"},
	}

	if _, err := InitTracer(context.Background(), cfg); !errors.IsInvalidConfig(err) {
		t.Errorf("InitTracer() error = %v, want invalid-config", err)
	}
}
