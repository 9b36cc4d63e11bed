package protection

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Kagamine/DataProtection/encryption"
	"github.com/Kagamine/DataProtection/errors"
	"github.com/Kagamine/DataProtection/keyring"
	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/observability"
)

// EphemeralProvider is a data protection provider whose key material
// lives only for the lifetime of the process. It owns an ephemeral
// key ring and hands out protectors bound to purpose chains.
//
// Use it where payloads never need to outlive the process: test
// fixtures, transient caches, inter-goroutine handoff. Anything still
// protected when the process exits is gone.
type EphemeralProvider struct {
	ring    *keyring.Ephemeral
	log     *logger.Logger
	metrics *observability.Metrics
}

var (
	_ Provider                    = (*EphemeralProvider)(nil)
	_ observability.HealthChecker = (*EphemeralProvider)(nil)
)

// NewEphemeralProvider creates a provider with a fresh ephemeral key
// ring. The KDK is drawn from the OS CSPRNG and the encryptor is
// built eagerly, so construction is the only point that can fail for
// cryptographic reasons.
func NewEphemeralProvider(opts ...Option) (*EphemeralProvider, error) {
	o := &options{cfg: encryption.DefaultConfiguration()}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("protection")
	}

	ring, err := keyring.NewWithConfiguration(o.cfg)
	if err != nil {
		return nil, err
	}

	p := &EphemeralProvider{ring: ring, log: o.log, metrics: o.metrics}
	p.log.Info("ephemeral data protection in use: payloads will be unrecoverable after process exit",
		logger.Fields(logger.FieldAlgorithm, string(ring.Algorithm())))
	return p, nil
}

// CreateProtector implements Provider.
func (p *EphemeralProvider) CreateProtector(purpose string, subPurposes ...string) (Protector, error) {
	chain, err := validatePurposes(purpose, subPurposes)
	if err != nil {
		return nil, err
	}

	p.log.Debug("protector created", logger.Fields(logger.FieldPurposeCount, len(chain)))
	p.metrics.RecordProtectorCreated(len(chain))
	return newPurposeProtector(p.ring, chain, p.log, p.metrics), nil
}

// Algorithm reports the algorithm of the underlying key ring.
func (p *EphemeralProvider) Algorithm() encryption.Algorithm {
	return p.ring.Algorithm()
}

// CheckHealth implements observability.HealthChecker by running a
// protect and unprotect round trip against the live key ring.
func (p *EphemeralProvider) CheckHealth(ctx context.Context) observability.Health {
	h := observability.HealthFromError("dataprotection", p.probe(ctx))
	h.Details = map[string]string{"algorithm": string(p.ring.Algorithm())}
	return h
}

func (p *EphemeralProvider) probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	protector, err := p.CreateProtector("health")
	if err != nil {
		return err
	}

	probe := []byte("health probe")
	protected, err := protector.Protect(probe)
	if err != nil {
		return err
	}

	unprotected, err := protector.Unprotect(protected)
	if err != nil {
		return err
	}
	if !bytes.Equal(unprotected, probe) {
		return errors.UnprotectFailed(fmt.Errorf("health probe mismatch"))
	}
	return nil
}
