package encryption

import "runtime"

// Algorithm represents supported authenticated encryption algorithms.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM, used on platforms with native
	// AEAD support.
	AlgorithmAESGCM Algorithm = "aes-256-gcm"

	// AlgorithmAESCBCHMAC is AES-256-CBC with HMAC-SHA256 in
	// encrypt-then-MAC composition, the portable fallback.
	AlgorithmAESCBCHMAC Algorithm = "aes-256-cbc-hmac-sha256"
)

// Configuration describes an authenticated encryption algorithm and
// builds encryptors for it from a key derivation key.
type Configuration interface {
	// Algorithm reports the algorithm this configuration selects.
	Algorithm() Algorithm

	// KeySize reports the symmetric key size in bits.
	KeySize() int

	// NewEncryptor derives working keys from the KDK and returns a
	// ready encryptor.
	NewEncryptor(kdk *KDK) (AuthenticatedEncryptor, error)
}

// NativeConfiguration selects AES-256-GCM.
type NativeConfiguration struct{}

// Algorithm implements Configuration.
func (NativeConfiguration) Algorithm() Algorithm { return AlgorithmAESGCM }

// KeySize implements Configuration.
func (NativeConfiguration) KeySize() int { return 256 }

// NewEncryptor implements Configuration.
func (NativeConfiguration) NewEncryptor(kdk *KDK) (AuthenticatedEncryptor, error) {
	return newGCMEncryptor(kdk)
}

// PortableConfiguration selects AES-256-CBC with HMAC-SHA256.
type PortableConfiguration struct{}

// Algorithm implements Configuration.
func (PortableConfiguration) Algorithm() Algorithm { return AlgorithmAESCBCHMAC }

// KeySize implements Configuration.
func (PortableConfiguration) KeySize() int { return 256 }

// NewEncryptor implements Configuration.
func (PortableConfiguration) NewEncryptor(kdk *KDK) (AuthenticatedEncryptor, error) {
	return newCBCHMACEncryptor(kdk)
}

// Select returns the algorithm configuration for the given GOOS
// value. Windows gets AES-256-GCM; every other platform gets the
// portable AES-256-CBC+HMAC-SHA256 composition. Select is a pure
// function: equal inputs always produce equal configurations, and
// every input maps to a configuration.
func Select(goos string) Configuration {
	if goos == "windows" {
		return NativeConfiguration{}
	}
	return PortableConfiguration{}
}

// DefaultConfiguration returns the configuration for the platform the
// process is running on.
func DefaultConfiguration() Configuration {
	return Select(runtime.GOOS)
}

// ConfigurationFor returns the configuration implementing the named
// algorithm, or false when the algorithm is unknown.
func ConfigurationFor(alg Algorithm) (Configuration, bool) {
	switch alg {
	case AlgorithmAESGCM:
		return NativeConfiguration{}, true
	case AlgorithmAESCBCHMAC:
		return PortableConfiguration{}, true
	default:
		return nil, false
	}
}
