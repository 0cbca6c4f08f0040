// Package codec serializes the public-input record and proof artifacts with
// CBOR Core Deterministic Encoding (RFC 8949 §4.2): the same value always
// produces the same bytes, which keeps transcripts and digests reproducible.
package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Duplicate keys would make two encodings decode to one record.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// PublicInputs is the record that parameterizes one run: the hex0 source and
// the digest its decoded output must have.
type PublicInputs struct {
	SourceBytes  []byte
	ExpectedHash core.Digest
}

// publicInputsWire keeps the digest as a byte string so its length can be
// checked on the way in.
type publicInputsWire struct {
	SourceBytes  []byte `cbor:"source_bytes"`
	ExpectedHash []byte `cbor:"expected_hash"`
}

// EncodePublicInputs serializes the record for the input channel.
func EncodePublicInputs(in PublicInputs) ([]byte, error) {
	wire := publicInputsWire{
		SourceBytes:  in.SourceBytes,
		ExpectedHash: in.ExpectedHash[:],
	}
	if wire.SourceBytes == nil {
		wire.SourceBytes = []byte{}
	}
	data, err := Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding public inputs: %w", err)
	}
	return data, nil
}

// DecodePublicInputs parses a record produced by EncodePublicInputs.
func DecodePublicInputs(data []byte) (PublicInputs, error) {
	var wire publicInputsWire
	if err := Unmarshal(data, &wire); err != nil {
		return PublicInputs{}, fmt.Errorf("decoding public inputs: %w", err)
	}
	if len(wire.ExpectedHash) != core.DigestSize {
		return PublicInputs{}, fmt.Errorf("expected_hash is %d bytes, want %d", len(wire.ExpectedHash), core.DigestSize)
	}

	in := PublicInputs{SourceBytes: wire.SourceBytes}
	if in.SourceBytes == nil {
		in.SourceBytes = []byte{}
	}
	copy(in.ExpectedHash[:], wire.ExpectedHash)
	return in, nil
}
