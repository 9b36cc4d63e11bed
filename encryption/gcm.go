package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/awnumar/memguard"

	"github.com/Kagamine/DataProtection/errors"
)

// gcmEncryptor implements AuthenticatedEncryptor with AES-256-GCM.
// The AES key is derived from the KDK once at construction.
type gcmEncryptor struct {
	gcm cipher.AEAD
}

func newGCMEncryptor(kdk *KDK) (*gcmEncryptor, error) {
	key, err := kdk.deriveKey(infoGCMKey, AESKeySize)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.CryptoUnavailable("aes", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.CryptoUnavailable("gcm", err)
	}

	return &gcmEncryptor{gcm: gcm}, nil
}

// Algorithm implements AuthenticatedEncryptor.
func (e *gcmEncryptor) Algorithm() Algorithm { return AlgorithmAESGCM }

// Encrypt implements AuthenticatedEncryptor. The output layout is
// nonce || ciphertext || tag, with additionalData bound into the tag.
func (e *gcmEncryptor) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, GCMNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return e.gcm.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Decrypt implements AuthenticatedEncryptor.
func (e *gcmEncryptor) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < GCMNonceSize+GCMTagSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, body := ciphertext[:GCMNonceSize], ciphertext[GCMNonceSize:]
	plaintext, err := e.gcm.Open(nil, nonce, body, additionalData)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	return plaintext, nil
}
