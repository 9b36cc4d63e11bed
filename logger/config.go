package logger

import (
	"fmt"
	"slices"
)

var (
	levelNames  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	formatNames = []string{"json", "console", "text"}
)

// Config controls log level, encoding and destination.
type Config struct {
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults fills unset fields. Timestamps are always on; a bool zero
// value cannot express "unset".
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = defaultService
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate rejects unknown levels and formats.
func (c *Config) Validate() error {
	if !slices.Contains(levelNames, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", levelNames, c.Level)
	}
	if !slices.Contains(formatNames, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", formatNames, c.Format)
	}
	return nil
}
