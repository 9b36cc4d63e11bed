package keyring

import (
	"github.com/google/uuid"

	"github.com/Kagamine/DataProtection/encryption"
)

// Ring is an immutable snapshot of key material. It names a default
// key and resolves key IDs to encryptors.
type Ring interface {
	// DefaultKeyID is the ID of the key new payloads are protected
	// under.
	DefaultKeyID() uuid.UUID

	// DefaultEncryptor is the encryptor for the default key.
	DefaultEncryptor() encryption.AuthenticatedEncryptor

	// Encryptor resolves a key ID. ok reports whether the key exists
	// in this ring; revoked reports whether the key exists but must
	// not be trusted. A missing key is (nil, false, false), never an
	// error.
	Encryptor(keyID uuid.UUID) (enc encryption.AuthenticatedEncryptor, revoked, ok bool)
}

// Provider hands out the current ring. Implementations distinguish
// the two roles so that callers holding a Provider always observe key
// rotation while callers holding a Ring get a stable snapshot.
type Provider interface {
	// CurrentRing returns the ring in effect right now.
	CurrentRing() Ring
}
