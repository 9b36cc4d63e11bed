package security

import (
	"cmp"
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/Kagamine/DataProtection/errors"
)

// TLSConfig describes transport security for telemetry export. The zero
// value leaves TLS at library defaults and builds a nil *tls.Config.
type TLSConfig struct {
	// CAFile points at a PEM bundle that replaces the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile and KeyFile supply a client certificate pair for mutual
	// TLS toward the collector.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the hostname expected during verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// SkipVerify disables server certificate verification.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// MinVersion is a tls.VersionTLS* constant. Zero means TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// IsEnabled reports whether any field requests custom TLS behavior.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.CAFile != "" || c.CertFile != "" || c.ServerName != "" || c.SkipVerify
}

// Validate checks the configuration for inconsistencies that Build would
// otherwise surface at connection time.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.InvalidConfig("tls: cert_file and key_file must be provided together")
	}
	return nil
}

// Build turns the configuration into a *tls.Config for the OTLP
// exporters. A disabled configuration builds nil, letting callers skip
// the TLS dial option entirely.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	cfg := &tls.Config{
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.SkipVerify,
		MinVersion:         cmp.Or(c.MinVersion, uint16(tls.VersionTLS12)),
	}

	if c.CAFile != "" {
		pool, err := c.rootPool()
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, errors.InvalidConfig("tls: loading client certificate").WithCause(err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func (c *TLSConfig) rootPool() (*x509.CertPool, error) {
	pemBytes, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, errors.InvalidConfig("tls: reading CA file").WithCause(err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, errors.InvalidConfig("tls: CA file contains no valid certificate")
	}
	return pool, nil
}
