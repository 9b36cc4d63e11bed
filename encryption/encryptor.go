package encryption

// AuthenticatedEncryptor performs authenticated encryption with
// associated data. Implementations bind the additional data into the
// authentication tag: decryption fails unless the same bytes are
// presented again.
type AuthenticatedEncryptor interface {
	// Algorithm reports which algorithm this encryptor implements.
	Algorithm() Algorithm

	// Encrypt encrypts plaintext and authenticates it together with
	// additionalData. The returned ciphertext embeds the nonce or IV
	// and the authentication tag.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	// Decrypt authenticates and decrypts ciphertext produced by
	// Encrypt. It fails if the ciphertext was tampered with, if
	// additionalData differs from the value used at encryption time,
	// or if the ciphertext came from a different key.
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
}
