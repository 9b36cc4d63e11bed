package keyring

import (
	"github.com/google/uuid"

	"github.com/Kagamine/DataProtection/encryption"
)

// Ephemeral is a single-key ring whose key material lives only in
// process memory. The key derivation key is generated at construction
// and the encryptor is built eagerly, so the ring is immutable
// afterwards and every accessor is lock free.
//
// Ephemeral is both a Ring and its own Provider: CurrentRing returns
// the receiver, so the current ring never changes for the lifetime of
// the process. The key ID is the zero UUID, which is never a
// persisted key ID, so payloads cannot be confused with those of a
// durable key store.
type Ephemeral struct {
	keyID     uuid.UUID
	kdk       *encryption.KDK
	encryptor encryption.AuthenticatedEncryptor
}

var (
	_ Ring     = (*Ephemeral)(nil)
	_ Provider = (*Ephemeral)(nil)
)

// New creates an ephemeral key ring using the algorithm for the
// current platform.
func New() (*Ephemeral, error) {
	return NewWithConfiguration(encryption.DefaultConfiguration())
}

// NewWithConfiguration creates an ephemeral key ring using the given
// algorithm configuration. A fresh KDK is drawn from the OS CSPRNG;
// it is retained for the lifetime of the ring and discarded with it.
func NewWithConfiguration(cfg encryption.Configuration) (*Ephemeral, error) {
	kdk, err := encryption.NewKDK()
	if err != nil {
		return nil, err
	}

	enc, err := cfg.NewEncryptor(kdk)
	if err != nil {
		return nil, err
	}

	return &Ephemeral{
		keyID:     uuid.Nil,
		kdk:       kdk,
		encryptor: enc,
	}, nil
}

// DefaultKeyID implements Ring. For an ephemeral ring this is always
// the zero UUID.
func (e *Ephemeral) DefaultKeyID() uuid.UUID { return e.keyID }

// DefaultEncryptor implements Ring.
func (e *Ephemeral) DefaultEncryptor() encryption.AuthenticatedEncryptor { return e.encryptor }

// Encryptor implements Ring. Only the default key resolves; any other
// ID is reported missing, not revoked.
func (e *Ephemeral) Encryptor(keyID uuid.UUID) (encryption.AuthenticatedEncryptor, bool, bool) {
	if keyID != e.keyID {
		return nil, false, false
	}
	return e.encryptor, false, true
}

// CurrentRing implements Provider. The ring is its own provider, so
// the returned value is identical on every call.
func (e *Ephemeral) CurrentRing() Ring { return e }

// Algorithm reports the algorithm the ring's encryptor implements.
func (e *Ephemeral) Algorithm() encryption.Algorithm { return e.encryptor.Algorithm() }
