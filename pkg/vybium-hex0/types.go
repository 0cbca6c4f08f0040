package vybiumhex0

import (
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/codec"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/protocols"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/utils"
)

// DigestSize is the length of an expected digest in bytes
const DigestSize = core.DigestSize

// Digest is a SHA-256 digest of decoded output
type Digest = core.Digest

// PublicInputs is the record parameterizing one run: the hex0 source and the
// digest its decoded output must have
type PublicInputs = codec.PublicInputs

// Stats counts what a decode observed
type Stats = core.Stats

// Decoder is a streaming hex0 decoder; it implements io.Writer
type Decoder = core.Decoder

// Receipt attests a verified run of the guest program
type Receipt = protocols.Receipt

// Claim is the public part of a receipt
type Claim = protocols.Claim

// Config represents configuration for receipt generation and verification
type Config struct {
	// Transitions sampled from the transcript, beyond the first and last
	NumQueries int

	// Transcript hash: "sha3" or "sha256"
	HashFunction string
}

// DefaultConfig returns a default receipt configuration
func DefaultConfig() *Config {
	def := utils.DefaultConfig()
	return &Config{
		NumQueries:   def.NumQueries,
		HashFunction: def.HashFunction,
	}
}

func (c *Config) toInternal() *utils.Config {
	return utils.DefaultConfig().
		WithNumQueries(c.NumQueries).
		WithHashFunction(c.HashFunction)
}

// ExecutionReport is what an execute-mode run reports
type ExecutionReport struct {
	// Decoder steps, one per source byte
	Cycles uint64

	// Decoded output and its SHA-256
	Output       []byte
	OutputDigest Digest

	Stats Stats

	// "verified" or "aborted"
	Status string
}
