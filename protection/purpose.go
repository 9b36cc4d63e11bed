package protection

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/Kagamine/DataProtection/errors"
	"github.com/Kagamine/DataProtection/keyring"
	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/observability"
)

const (
	opProtect   = "protect"
	opUnprotect = "unprotect"
)

// purposeProtector binds payloads to a purpose chain by mixing the
// canonical chain encoding into the additional data of every
// encryption. The key ring provider is consulted on each operation,
// so a rotating provider is always read at its current state.
type purposeProtector struct {
	rings    keyring.Provider
	purposes []string
	encoded  []byte
	log      *logger.Logger
	metrics  *observability.Metrics
}

func newPurposeProtector(rings keyring.Provider, purposes []string, log *logger.Logger, metrics *observability.Metrics) *purposeProtector {
	return &purposeProtector{
		rings:    rings,
		purposes: purposes,
		encoded:  encodePurposes(purposes),
		log:      log,
		metrics:  metrics,
	}
}

// validatePurposes checks a purpose chain extension and returns it as
// a slice. Every segment must be non empty; an empty purpose would
// let unrelated callers share a protection boundary by accident.
func validatePurposes(purpose string, subPurposes []string) ([]string, error) {
	if purpose == "" {
		return nil, errors.InvalidArgument("purpose", "must not be empty")
	}
	chain := make([]string, 0, 1+len(subPurposes))
	chain = append(chain, purpose)
	for i, sub := range subPurposes {
		if sub == "" {
			return nil, errors.InvalidArgument(fmt.Sprintf("subPurposes[%d]", i), "must not be empty")
		}
		chain = append(chain, sub)
	}
	return chain, nil
}

// encodePurposes produces the canonical byte encoding of a purpose
// chain: segment count, then each segment length prefixed. The
// encoding is injective, so ["ab"] and ["a","b"] never collide.
func encodePurposes(purposes []string) []byte {
	size := 4
	for _, p := range purposes {
		size += 4 + len(p)
	}

	buf := make([]byte, 0, size)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(purposes)))
	buf = append(buf, n[:]...)
	for _, p := range purposes {
		binary.BigEndian.PutUint32(n[:], uint32(len(p)))
		buf = append(buf, n[:]...)
		buf = append(buf, p...)
	}
	return buf
}

// CreateProtector implements Provider. The new protector's chain is
// this protector's chain plus the given segments.
func (p *purposeProtector) CreateProtector(purpose string, subPurposes ...string) (Protector, error) {
	segments, err := validatePurposes(purpose, subPurposes)
	if err != nil {
		return nil, err
	}

	chain := make([]string, 0, len(p.purposes)+len(segments))
	chain = append(chain, p.purposes...)
	chain = append(chain, segments...)
	p.metrics.RecordProtectorCreated(len(chain))
	return newPurposeProtector(p.rings, chain, p.log, p.metrics), nil
}

// Protect implements Protector.
func (p *purposeProtector) Protect(plaintext []byte) ([]byte, error) {
	start := time.Now()

	ring := p.rings.CurrentRing()
	enc := ring.DefaultEncryptor()

	hdr, err := encodeHeader(enc.Algorithm(), ring.DefaultKeyID())
	if err != nil {
		return nil, p.reject(opProtect, errors.ProtectFailed(err))
	}

	aad := make([]byte, 0, len(hdr)+len(p.encoded))
	aad = append(aad, hdr...)
	aad = append(aad, p.encoded...)

	body, err := enc.Encrypt(plaintext, aad)
	if err != nil {
		return nil, p.reject(opProtect, errors.ProtectFailed(err))
	}

	out := make([]byte, 0, len(hdr)+len(body))
	out = append(out, hdr...)
	out = append(out, body...)

	p.metrics.RecordOperation(opProtect, string(enc.Algorithm()), len(plaintext), time.Since(start))
	return out, nil
}

// Unprotect implements Protector. Key resolution failures surface
// with their own codes; every cryptographic failure is reported as
// one opaque unprotect error so callers cannot distinguish tampering
// from a wrong purpose.
func (p *purposeProtector) Unprotect(protectedData []byte) ([]byte, error) {
	start := time.Now()

	hdr, err := parseHeader(protectedData)
	if err != nil {
		return nil, p.reject(opUnprotect, err)
	}

	ring := p.rings.CurrentRing()
	enc, revoked, ok := ring.Encryptor(hdr.keyID)
	if !ok {
		return nil, p.reject(opUnprotect, errors.KeyNotFound(hdr.keyID.String()))
	}
	if revoked {
		return nil, p.reject(opUnprotect, errors.KeyRevoked(hdr.keyID.String()))
	}
	if enc.Algorithm() != hdr.algorithm {
		return nil, p.reject(opUnprotect, errors.UnprotectFailed(fmt.Errorf("payload algorithm does not match key")))
	}

	aad := make([]byte, 0, headerSize+len(p.encoded))
	aad = append(aad, protectedData[:headerSize]...)
	aad = append(aad, p.encoded...)

	plaintext, err := enc.Decrypt(protectedData[headerSize:], aad)
	if err != nil {
		return nil, p.reject(opUnprotect, errors.UnprotectFailed(err))
	}

	p.metrics.RecordOperation(opUnprotect, string(enc.Algorithm()), len(plaintext), time.Since(start))
	return plaintext, nil
}

// reject records the failure and passes the error through unchanged.
func (p *purposeProtector) reject(op string, err error) error {
	if ae, ok := errors.AsAppError(err); ok {
		p.metrics.RecordError(op, string(ae.Code))
	}
	return err
}
