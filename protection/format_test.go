package protection

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"github.com/Kagamine/DataProtection/encryption"
	"github.com/Kagamine/DataProtection/errors"
)

func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		alg   encryption.Algorithm
		keyID uuid.UUID
	}{
		{"gcm zero key", encryption.AlgorithmAESGCM, uuid.Nil},
		{"cbc zero key", encryption.AlgorithmAESCBCHMAC, uuid.Nil},
		{"gcm random key", encryption.AlgorithmAESGCM, uuid.New()},
		{"cbc random key", encryption.AlgorithmAESCBCHMAC, uuid.New()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hdr, err := encodeHeader(tc.alg, tc.keyID)
			if err != nil {
				t.Fatalf("encodeHeader failed: %v", err)
			}
			if len(hdr) != headerSize {
				t.Fatalf("header length = %d, want %d", len(hdr), headerSize)
			}

			parsed, err := parseHeader(hdr)
			if err != nil {
				t.Fatalf("parseHeader failed: %v", err)
			}
			if parsed.algorithm != tc.alg {
				t.Errorf("algorithm = %s, want %s", parsed.algorithm, tc.alg)
			}
			if parsed.keyID != tc.keyID {
				t.Errorf("keyID = %s, want %s", parsed.keyID, tc.keyID)
			}
		})
	}
}

func TestHeaderWireFormat(t *testing.T) {
	keyID := uuid.MustParse("0102030405060708090a0b0c0d0e0f10")
	hdr, err := encodeHeader(encryption.AlgorithmAESGCM, keyID)
	if err != nil {
		t.Fatalf("encodeHeader failed: %v", err)
	}

	if hdr[0] != 'D' || hdr[1] != 'P' {
		t.Errorf("magic = %q%q, want DP", hdr[0], hdr[1])
	}
	if hdr[2] != 0x01 {
		t.Errorf("version = %#x, want 0x01", hdr[2])
	}
	if hdr[3] != 0x01 {
		t.Errorf("gcm algorithm byte = %#x, want 0x01", hdr[3])
	}
	if !bytes.Equal(hdr[4:], keyID[:]) {
		t.Error("key ID bytes not embedded raw")
	}

	hdr, _ = encodeHeader(encryption.AlgorithmAESCBCHMAC, keyID)
	if hdr[3] != 0x02 {
		t.Errorf("cbc algorithm byte = %#x, want 0x02", hdr[3])
	}
}

func TestEncodeHeaderUnknownAlgorithm(t *testing.T) {
	_, err := encodeHeader("rot13", uuid.Nil)
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if !errors.IsInvalidPayload(err) {
		t.Errorf("expected INVALID_PAYLOAD, got %v", err)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	valid, _ := encodeHeader(encryption.AlgorithmAESGCM, uuid.Nil)

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'X'

	badVersion := append([]byte(nil), valid...)
	badVersion[2] = 0x7f

	badAlg := append([]byte(nil), valid...)
	badAlg[3] = 0xee

	tests := []struct {
		name    string
		payload []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"truncated", valid[:headerSize-1]},
		{"bad magic", badMagic},
		{"bad version", badVersion},
		{"unknown algorithm", badAlg},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseHeader(tc.payload)
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !errors.IsInvalidPayload(err) {
				t.Errorf("expected INVALID_PAYLOAD, got %v", err)
			}
		})
	}
}

func TestEncodePurposesInjective(t *testing.T) {
	chains := [][]string{
		{"a"},
		{"ab"},
		{"a", "b"},
		{"a", "bc"},
		{"ab", "c"},
		{"a", "b", "c"},
	}

	seen := make(map[string][]string)
	for _, chain := range chains {
		enc := string(encodePurposes(chain))
		if prev, dup := seen[enc]; dup {
			t.Errorf("chains %v and %v encode identically", prev, chain)
		}
		seen[enc] = chain
	}
}

func TestEncodePurposesDeterministic(t *testing.T) {
	chain := []string{"cookies", "session"}
	if !bytes.Equal(encodePurposes(chain), encodePurposes(chain)) {
		t.Error("encoding must be deterministic")
	}
}

func TestValidatePurposes(t *testing.T) {
	tests := []struct {
		name    string
		purpose string
		subs    []string
		wantErr bool
		wantLen int
	}{
		{"single", "a", nil, false, 1},
		{"with subs", "a", []string{"b", "c"}, false, 3},
		{"empty purpose", "", nil, true, 0},
		{"empty purpose with subs", "", []string{"b"}, true, 0},
		{"empty sub", "a", []string{""}, true, 0},
		{"empty middle sub", "a", []string{"b", "", "c"}, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain, err := validatePurposes(tc.purpose, tc.subs)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.IsInvalidArgument(err) {
					t.Errorf("expected INVALID_ARGUMENT, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(chain) != tc.wantLen {
				t.Errorf("chain length = %d, want %d", len(chain), tc.wantLen)
			}
		})
	}
}
