// Package encryption provides authenticated encryption primitives for
// the data protection stack.
//
// Keys are never handled directly. A KDK (key derivation key) is
// generated from the OS CSPRNG and sealed in a guarded memory
// enclave; working keys are derived from it with HKDF-SHA-512 under
// per-purpose info labels and wiped once the ciphers are constructed.
//
// Two algorithms are supported, chosen per platform by Select:
//
//   - AES-256-GCM on Windows, where the platform ships a native AEAD.
//   - AES-256-CBC with HMAC-SHA256 (encrypt-then-MAC) everywhere else.
//
// Both implement AuthenticatedEncryptor, so callers are independent
// of the algorithm in use:
//
//	kdk, err := encryption.NewKDK()
//	if err != nil {
//	    return err
//	}
//	enc, err := encryption.DefaultConfiguration().NewEncryptor(kdk)
//	if err != nil {
//	    return err
//	}
//	ciphertext, err := enc.Encrypt(plaintext, aad)
package encryption
