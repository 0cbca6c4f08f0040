package vybiumhex0

import (
	"io"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/codec"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
)

// Decode compiles hex0 source into the bytes it describes. It never fails:
// anything that is not a hex digit or a comment is skipped, and an odd
// trailing digit is dropped.
func Decode(src []byte) []byte {
	return core.Decode(src)
}

// DecodeWithStats is Decode that also reports what was consumed.
func DecodeWithStats(src []byte) ([]byte, Stats) {
	return core.DecodeWithStats(src)
}

// NewDecoder returns a streaming decoder. Feeding it the source in any
// chunking yields the same output as Decode.
func NewDecoder() *Decoder {
	return core.NewDecoder()
}

// DecodeReader decodes everything r yields.
func DecodeReader(r io.Reader) ([]byte, error) {
	out, err := core.DecodeReader(r)
	if err != nil {
		return nil, newError(ErrInvalidInput, "failed to read hex0 source", err)
	}
	return out, nil
}

// SumDigest computes the SHA-256 digest of decoded output.
func SumDigest(output []byte) Digest {
	return core.SumDigest(output)
}

// ParseDigest parses a hex-encoded 32-byte digest.
func ParseDigest(s string) (Digest, error) {
	d, err := core.ParseDigest(s)
	if err != nil {
		return Digest{}, newError(ErrInvalidInput, "invalid expected hash", err)
	}
	return d, nil
}

// VerifyDigest checks that output hashes to expected. A non-nil error has
// code ErrHashMismatch and is unrecoverable.
func VerifyDigest(output []byte, expected Digest) error {
	if err := core.VerifyDigest(output, expected); err != nil {
		return newError(ErrHashMismatch, "decoded output does not match the expected hash", err)
	}
	return nil
}

// MustVerifyDigest panics if output does not hash to expected.
func MustVerifyDigest(output []byte, expected Digest) {
	core.MustVerifyDigest(output, expected)
}

// NewPublicInputs builds a record from source bytes and a hex digest.
func NewPublicInputs(source []byte, expectedHash string) (PublicInputs, error) {
	expected, err := ParseDigest(expectedHash)
	if err != nil {
		return PublicInputs{}, err
	}
	return PublicInputs{SourceBytes: source, ExpectedHash: expected}, nil
}

// EncodePublicInputs serializes a record with deterministic CBOR.
func EncodePublicInputs(in PublicInputs) ([]byte, error) {
	data, err := codec.EncodePublicInputs(in)
	if err != nil {
		return nil, newError(ErrEncoding, "failed to encode public inputs", err)
	}
	return data, nil
}

// DecodePublicInputs parses a record produced by EncodePublicInputs.
func DecodePublicInputs(data []byte) (PublicInputs, error) {
	in, err := codec.DecodePublicInputs(data)
	if err != nil {
		return PublicInputs{}, newError(ErrInvalidInput, "failed to decode public inputs", err)
	}
	return in, nil
}
