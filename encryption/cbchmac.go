package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/awnumar/memguard"

	"github.com/Kagamine/DataProtection/errors"
)

// cbcHMACEncryptor implements AuthenticatedEncryptor with AES-256-CBC
// and HMAC-SHA256 in encrypt-then-MAC composition. The encryption and
// MAC keys are derived independently from the KDK.
type cbcHMACEncryptor struct {
	block  cipher.Block
	macKey []byte
}

func newCBCHMACEncryptor(kdk *KDK) (*cbcHMACEncryptor, error) {
	encKey, err := kdk.deriveKey(infoCBCKey, AESKeySize)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(encKey)

	macKey, err := kdk.deriveKey(infoHMACKey, HMACKeySize)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		memguard.WipeBytes(macKey)
		return nil, errors.CryptoUnavailable("aes", err)
	}

	return &cbcHMACEncryptor{block: block, macKey: macKey}, nil
}

// Algorithm implements AuthenticatedEncryptor.
func (e *cbcHMACEncryptor) Algorithm() Algorithm { return AlgorithmAESCBCHMAC }

// Encrypt implements AuthenticatedEncryptor. The output layout is
// iv || ciphertext || tag, where the tag authenticates the additional
// data, the IV and the ciphertext.
func (e *cbcHMACEncryptor) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	iv := make([]byte, CBCIVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, CBCBlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(e.block, iv).CryptBlocks(ct, padded)

	tag := e.computeTag(additionalData, iv, ct)

	out := make([]byte, 0, CBCIVSize+len(ct)+HMACTagSize)
	out = append(out, iv...)
	out = append(out, ct...)
	out = append(out, tag...)
	return out, nil
}

// Decrypt implements AuthenticatedEncryptor. The tag is verified in
// constant time before any decryption happens, so padding errors
// cannot be distinguished from tampering.
func (e *cbcHMACEncryptor) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < CBCIVSize+CBCBlockSize+HMACTagSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	iv := ciphertext[:CBCIVSize]
	tag := ciphertext[len(ciphertext)-HMACTagSize:]
	ct := ciphertext[CBCIVSize : len(ciphertext)-HMACTagSize]
	if len(ct)%CBCBlockSize != 0 {
		return nil, fmt.Errorf("ciphertext not block aligned")
	}

	expected := e.computeTag(additionalData, iv, ct)
	if !hmac.Equal(tag, expected) {
		return nil, fmt.Errorf("authentication failed")
	}

	plaintext := make([]byte, len(ct))
	cipher.NewCBCDecrypter(e.block, iv).CryptBlocks(plaintext, ct)

	unpadded, err := pkcs7Unpad(plaintext, CBCBlockSize)
	if err != nil {
		return nil, err
	}
	return unpadded, nil
}

// computeTag authenticates additionalData, iv and ct together. The
// additional data is length prefixed so its boundary with the IV is
// unambiguous.
func (e *cbcHMACEncryptor) computeTag(additionalData, iv, ct []byte) []byte {
	mac := hmac.New(sha256.New, e.macKey)

	var aadLen [8]byte
	binary.BigEndian.PutUint64(aadLen[:], uint64(len(additionalData)))
	mac.Write(aadLen[:])
	mac.Write(additionalData)
	mac.Write(iv)
	mac.Write(ct)
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
