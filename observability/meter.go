package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/security"
	"github.com/Kagamine/DataProtection/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g. "localhost:4318").
	Endpoint string
	// Insecure allows plain HTTP export, for development.
	Insecure bool
	// TLS configures transport security toward the collector.
	TLS *security.TLSConfig
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns development defaults: a local collector,
// no TLS, 15 second exports.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter sets up the global OpenTelemetry meter provider with an
// OTLP HTTP exporter. The returned provider must be shut down on exit to
// flush pending metrics.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	tlsConfig, err := config.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		opts = append(opts, otlpmetrichttp.WithTLSClientConfig(tlsConfig))
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments for data protection operations.
// A nil *Metrics is valid and records nothing, so callers never need
// to branch on whether metrics are enabled.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	payloadBytes      metric.Int64Histogram
	protectorTotal    metric.Int64Counter
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationTotal, err := meter.Int64Counter("dataprotection.operation.total",
		metric.WithDescription("Total number of protect and unprotect operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("dataprotection.operation.duration",
		metric.WithDescription("Duration of protect and unprotect operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.duration histogram: %w", err)
	}

	payloadBytes, err := meter.Int64Histogram("dataprotection.payload.bytes",
		metric.WithDescription("Plaintext payload sizes in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating payload.bytes histogram: %w", err)
	}

	protectorTotal, err := meter.Int64Counter("dataprotection.protector.total",
		metric.WithDescription("Total number of protectors created"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating protector.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("dataprotection.error.total",
		metric.WithDescription("Total failed operations by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		payloadBytes:      payloadBytes,
		protectorTotal:    protectorTotal,
		errorTotal:        errorTotal,
	}, nil
}

// NewDefaultMetrics creates instruments on the global meter provider.
func NewDefaultMetrics() (*Metrics, error) {
	return NewMetrics(Meter("dataprotection"))
}

// RecordOperation records one successful protect or unprotect
// operation with its plaintext size.
func (m *Metrics) RecordOperation(operation, algorithm string, payloadBytes int, duration time.Duration) {
	if m == nil {
		return
	}

	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("algorithm", algorithm),
	)
	m.operationTotal.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, duration.Seconds(), attrs)
	m.payloadBytes.Record(ctx, int64(payloadBytes), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordProtectorCreated records a protector creation with the length
// of its purpose chain.
func (m *Metrics) RecordProtectorCreated(chainLength int) {
	if m == nil {
		return
	}
	m.protectorTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("chain_length", chainLength),
	))
}

// RecordError records a failed operation by error code.
func (m *Metrics) RecordError(operation, code string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("code", code),
	))
}
