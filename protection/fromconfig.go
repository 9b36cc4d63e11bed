package protection

import (
	"github.com/Kagamine/DataProtection/config"
	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/observability"
)

// NewFromConfig creates an ephemeral provider from an application
// config. Defaults are applied and the config is validated first, so
// a zero config is usable as is. Extra options are applied after the
// config-derived ones and take precedence.
//
// The algorithm comes from cfg.Protection. When observability is
// enabled, metric instruments are created on the global meter
// provider; initializing that provider (observability.InitMeter) is
// the host's responsibility.
func NewFromConfig(cfg *config.Config, opts ...Option) (*EphemeralProvider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	all := []Option{
		WithConfiguration(cfg.Protection.Configuration()),
		WithLogger(logger.New(&cfg.Logging, cfg.Service).WithComponent("protection")),
	}

	if cfg.Observability.Enabled {
		metrics, err := observability.NewDefaultMetrics()
		if err != nil {
			return nil, err
		}
		all = append(all, WithMetrics(metrics))
	}

	return NewEphemeralProvider(append(all, opts...)...)
}
