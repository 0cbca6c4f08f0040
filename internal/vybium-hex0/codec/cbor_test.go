package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
)

// TestPublicInputsRoundTrip tests that a record decodes to what was encoded
func TestPublicInputsRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		inputs PublicInputs
	}{
		{"typical", PublicInputs{SourceBytes: []byte("41 # c\n42"), ExpectedHash: core.SumDigest([]byte("AB"))}},
		{"empty source", PublicInputs{SourceBytes: []byte{}, ExpectedHash: core.SumDigest(nil)}},
		{"nil source", PublicInputs{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePublicInputs(tt.inputs)
			if err != nil {
				t.Fatalf("EncodePublicInputs failed: %v", err)
			}
			got, err := DecodePublicInputs(data)
			if err != nil {
				t.Fatalf("DecodePublicInputs failed: %v", err)
			}
			if got.SourceBytes == nil {
				t.Error("decoded source is nil")
			}
			if !bytes.Equal(got.SourceBytes, tt.inputs.SourceBytes) {
				t.Errorf("SourceBytes = %q, want %q", got.SourceBytes, tt.inputs.SourceBytes)
			}
			if got.ExpectedHash != tt.inputs.ExpectedHash {
				t.Errorf("ExpectedHash = %s, want %s", got.ExpectedHash, tt.inputs.ExpectedHash)
			}
		})
	}
}

// TestEncodeDeterministic tests that equal records encode to equal bytes
func TestEncodeDeterministic(t *testing.T) {
	in := PublicInputs{SourceBytes: []byte("ff"), ExpectedHash: core.SumDigest([]byte{0xff})}
	first, err := EncodePublicInputs(in)
	if err != nil {
		t.Fatalf("EncodePublicInputs failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := EncodePublicInputs(in)
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding %d differs", i)
		}
	}

	// A nil and an empty source are the same record.
	a, _ := EncodePublicInputs(PublicInputs{SourceBytes: nil})
	b, _ := EncodePublicInputs(PublicInputs{SourceBytes: []byte{}})
	if !bytes.Equal(a, b) {
		t.Error("nil and empty source encode differently")
	}
}

// TestDecodePublicInputsRejectsMalformed tests record validation
func TestDecodePublicInputsRejectsMalformed(t *testing.T) {
	shortHash, err := Marshal(publicInputsWire{SourceBytes: []byte("41"), ExpectedHash: make([]byte, 31)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	missingHash, err := Marshal(map[string][]byte{"source_bytes": []byte("41")})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		errText string
	}{
		{"short expected hash", shortHash, "expected_hash is 31 bytes"},
		{"missing expected hash", missingHash, "expected_hash is 0 bytes"},
		{"not CBOR", []byte{0xff, 0x00}, "decoding public inputs"},
		{"empty", nil, "decoding public inputs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePublicInputs(tt.data)
			if err == nil {
				t.Fatal("DecodePublicInputs succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q does not contain %q", err, tt.errText)
			}
		})
	}
}
