package encryption

const (
	// KDKSize is the size in bytes of a key derivation key (512 bits).
	KDKSize = 64

	// AESKeySize is the size in bytes of derived AES-256 keys.
	AESKeySize = 32

	// HMACKeySize is the size in bytes of derived HMAC-SHA256 keys.
	HMACKeySize = 32

	// GCMNonceSize is the size in bytes of the AES-GCM nonce.
	GCMNonceSize = 12

	// GCMTagSize is the size in bytes of the AES-GCM authentication tag.
	GCMTagSize = 16

	// CBCIVSize is the size in bytes of the AES-CBC initialization vector.
	CBCIVSize = 16

	// CBCBlockSize is the AES block size in bytes.
	CBCBlockSize = 16

	// HMACTagSize is the size in bytes of the HMAC-SHA256 authentication tag.
	HMACTagSize = 32
)

// HKDF info labels. Each derived key gets a distinct label so the
// encryption and MAC keys are cryptographically independent even
// though they come from the same KDK.
const (
	infoGCMKey  = "dataprotection:v1:aes-gcm:key"
	infoCBCKey  = "dataprotection:v1:aes-cbc:key"
	infoHMACKey = "dataprotection:v1:hmac-sha256:key"
)
