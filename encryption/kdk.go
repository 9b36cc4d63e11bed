package encryption

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/hkdf"

	"github.com/Kagamine/DataProtection/errors"
)

// KDK is a key derivation key held in a guarded memory enclave. All
// working keys are derived from it with HKDF-SHA-512 under distinct
// info labels. The raw key material never leaves the enclave except
// transiently during derivation, and there is no accessor that
// returns it to callers.
type KDK struct {
	enclave *memguard.Enclave
}

// NewKDK generates a fresh 512-bit key derivation key from the
// operating system CSPRNG and seals it in a memory enclave. The
// intermediate buffer is wiped before returning.
func NewKDK() (*KDK, error) {
	master := make([]byte, KDKSize)
	if _, err := io.ReadFull(rand.Reader, master); err != nil {
		return nil, errors.CryptoUnavailable("csprng", err)
	}

	enclave := memguard.NewEnclave(master)
	memguard.WipeBytes(master)

	return &KDK{enclave: enclave}, nil
}

// deriveKey derives size bytes of key material from the KDK using
// HKDF-SHA-512 with the given info label. The caller owns the
// returned slice and must wipe it once the key has been consumed.
func (k *KDK) deriveKey(info string, size int) ([]byte, error) {
	view, err := k.enclave.Open()
	if err != nil {
		return nil, errors.CryptoUnavailable("kdk", fmt.Errorf("open enclave: %w", err))
	}
	defer view.Destroy()

	reader := hkdf.New(sha512.New, view.Bytes(), nil, []byte(info))
	derived := make([]byte, size)
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, errors.CryptoUnavailable("hkdf", fmt.Errorf("derive %s: %w", info, err))
	}

	return derived, nil
}
