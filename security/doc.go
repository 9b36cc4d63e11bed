// Package security provides transport security configuration.
//
// TLSConfig describes client TLS for the telemetry export path: CA
// pinning, mTLS client certificates, server-name override, and minimum
// version. The observability package builds it into the *tls.Config
// handed to the OTLP exporters.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/ssl/collector-ca.pem",
//	    CertFile: "/etc/ssl/client.pem",
//	    KeyFile:  "/etc/ssl/client-key.pem",
//	}
//	tlsConfig, err := cfg.Build()
//
// None of the data protection key material flows through this package;
// it only shapes how telemetry leaves the process.
package security
