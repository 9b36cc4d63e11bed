package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/Kagamine/DataProtection/encryption"
	"github.com/Kagamine/DataProtection/errors"
	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/security"
)

// Config is the configuration of a data protection host. Applications
// embed it in their own config structs or load it standalone:
//
//	var cfg config.Config
//	if err := config.LoadConfig("myapp", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
type Config struct {
	Service       string              `yaml:"service" mapstructure:"service"`
	Environment   string              `yaml:"environment" mapstructure:"environment"`
	Debug         bool                `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config       `yaml:"logging" mapstructure:"logging"`
	Protection    ProtectionConfig    `yaml:"protection" mapstructure:"protection"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// ProtectionConfig configures the data protection provider.
type ProtectionConfig struct {
	// Algorithm forces an encryption algorithm. Empty selects the
	// platform default. Valid values are "aes-256-gcm" and
	// "aes-256-cbc-hmac-sha256".
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm"`
}

// Configuration resolves the algorithm configuration, falling back to
// the platform default when no algorithm is forced.
func (c *ProtectionConfig) Configuration() encryption.Configuration {
	if c.Algorithm == "" {
		return encryption.DefaultConfiguration()
	}
	if cfg, ok := encryption.ConfigurationFor(encryption.Algorithm(c.Algorithm)); ok {
		return cfg
	}
	return encryption.DefaultConfiguration()
}

// ObservabilityConfig configures OpenTelemetry export.
type ObservabilityConfig struct {
	// Enabled turns on metric instrumentation.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP export (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// TLS configures transport security toward the collector.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Service == "" {
		c.Service = "dataprotection"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}

	// The logger falls back to its own default service tag otherwise.
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Service
	}
	c.Logging.ApplyDefaults()

	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = "localhost:4318"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
	if c.Observability.Interval == 0 {
		c.Observability.Interval = 15 * time.Second
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	environments := []string{"development", "staging", "production"}
	if !slices.Contains(environments, c.Environment) {
		return errors.InvalidConfig(fmt.Sprintf("environment must be one of %v (got: %s)", environments, c.Environment))
	}

	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidConfig(fmt.Sprintf("logging: %v", err))
	}

	if alg := c.Protection.Algorithm; alg != "" {
		if _, ok := encryption.ConfigurationFor(encryption.Algorithm(alg)); !ok {
			return errors.InvalidConfig(fmt.Sprintf("protection.algorithm %q is not supported", alg))
		}
	}

	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return errors.InvalidConfig(fmt.Sprintf("observability.sample_rate must be within [0, 1] (got: %v)", c.Observability.SampleRate))
	}

	if err := c.Observability.TLS.Validate(); err != nil {
		return err
	}

	return nil
}
