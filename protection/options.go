package protection

import (
	"github.com/Kagamine/DataProtection/encryption"
	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/observability"
)

// Option configures an ephemeral provider.
type Option func(*options)

type options struct {
	cfg     encryption.Configuration
	log     *logger.Logger
	metrics *observability.Metrics
}

// WithConfiguration overrides the algorithm configuration. The
// default is the platform algorithm.
func WithConfiguration(cfg encryption.Configuration) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithPlatform selects the algorithm as if running on the given GOOS
// value. Intended for tests that need both algorithms regardless of
// the host platform.
func WithPlatform(goos string) Option {
	return func(o *options) { o.cfg = encryption.Select(goos) }
}

// WithLogger overrides the component logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics attaches operation metrics. Without it no metrics are
// recorded.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
