package protection

import (
	"github.com/google/uuid"

	"github.com/Kagamine/DataProtection/encryption"
	"github.com/Kagamine/DataProtection/errors"
)

// Protected payloads start with a fixed header that names the format
// version, the algorithm and the key the body was protected under:
//
//	magic "DP" (2) | version (1) | algorithm (1) | key ID (16)
//
// The header is bound into the authentication tag as additional data,
// so none of its fields can be altered without failing Unprotect.
const (
	payloadMagic0 = 'D'
	payloadMagic1 = 'P'

	payloadVersion1 = 0x01

	algByteAESGCM     = 0x01
	algByteAESCBCHMAC = 0x02

	headerSize = 20
)

// header is the parsed form of a payload header.
type header struct {
	algorithm encryption.Algorithm
	keyID     uuid.UUID
}

func algorithmByte(alg encryption.Algorithm) (byte, bool) {
	switch alg {
	case encryption.AlgorithmAESGCM:
		return algByteAESGCM, true
	case encryption.AlgorithmAESCBCHMAC:
		return algByteAESCBCHMAC, true
	default:
		return 0, false
	}
}

func algorithmFromByte(b byte) (encryption.Algorithm, bool) {
	switch b {
	case algByteAESGCM:
		return encryption.AlgorithmAESGCM, true
	case algByteAESCBCHMAC:
		return encryption.AlgorithmAESCBCHMAC, true
	default:
		return "", false
	}
}

// encodeHeader builds the payload header for a key and algorithm.
func encodeHeader(alg encryption.Algorithm, keyID uuid.UUID) ([]byte, error) {
	ab, ok := algorithmByte(alg)
	if !ok {
		return nil, errors.InvalidPayload("unsupported algorithm " + string(alg))
	}

	buf := make([]byte, 0, headerSize)
	buf = append(buf, payloadMagic0, payloadMagic1, payloadVersion1, ab)
	buf = append(buf, keyID[:]...)
	return buf, nil
}

// parseHeader validates the framing of a protected payload and
// returns its header. The body starts at offset headerSize.
func parseHeader(payload []byte) (header, error) {
	if len(payload) < headerSize {
		return header{}, errors.InvalidPayload("payload too short")
	}
	if payload[0] != payloadMagic0 || payload[1] != payloadMagic1 {
		return header{}, errors.InvalidPayload("bad magic")
	}
	if payload[2] != payloadVersion1 {
		return header{}, errors.InvalidPayload("unsupported version")
	}

	alg, ok := algorithmFromByte(payload[3])
	if !ok {
		return header{}, errors.InvalidPayload("unknown algorithm")
	}

	var keyID uuid.UUID
	copy(keyID[:], payload[4:headerSize])

	return header{algorithm: alg, keyID: keyID}, nil
}
