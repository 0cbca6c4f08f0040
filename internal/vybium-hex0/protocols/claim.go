package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/codec"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/vm"
)

// CurrentVersion is the version of the guest program and receipt format.
// It changes whenever either the decoder semantics or the receipt layout
// change.
const CurrentVersion uint32 = 1

// ProgramName identifies the guest program inside the program digest.
const ProgramName = "vybium-hex0/guest/hex0-sha256"

// ProgramDigest is the Tip5 digest identifying the guest program and version.
// It plays the role of a verifying key: receipts for any other program are
// rejected.
func ProgramDigest() hash.Digest {
	id := make([]byte, 0, len(ProgramName)+4)
	id = append(id, ProgramName...)
	id = binary.BigEndian.AppendUint32(id, CurrentVersion)
	return core.HashBytes(id)
}

// Claim contains the public information of one verified run of the guest
// program. A corresponding Receipt is needed to check it.
type Claim struct {
	// ProgramDigest ties the claim to a specific guest program
	ProgramDigest hash.Digest

	// Version of the guest program and receipt format
	Version uint32

	// InputDigest is the SHA-256 of the hex0 source
	InputDigest core.Digest

	// ExpectedHash is the digest the caller required
	ExpectedHash core.Digest

	// OutputDigest is the SHA-256 of the decoded output
	OutputDigest core.Digest

	OutputLen uint64
	Cycles    uint64
}

// NewClaim creates a new Claim with a program digest
func NewClaim(programDigest hash.Digest) *Claim {
	return &Claim{
		ProgramDigest: programDigest,
		Version:       CurrentVersion,
	}
}

// WithInputs binds the claim to a public-input record
func (c *Claim) WithInputs(inputs codec.PublicInputs) *Claim {
	c.InputDigest = core.SumDigest(inputs.SourceBytes)
	c.ExpectedHash = inputs.ExpectedHash
	return c
}

// WithExecution records what a run produced
func (c *Claim) WithExecution(exec *vm.Execution) *Claim {
	c.OutputDigest = exec.OutputDigest
	c.OutputLen = uint64(len(exec.Output))
	c.Cycles = exec.Cycles()
	return c
}

// Validate checks that the claim asserts a verified run
func (c *Claim) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("claim version %d, want %d", c.Version, CurrentVersion)
	}
	if c.OutputDigest != c.ExpectedHash {
		return fmt.Errorf("claimed output %s: %w", c.OutputDigest, core.ErrHashMismatch)
	}
	return nil
}

// Encode returns the fixed-layout bytes absorbed into the transcript
func (c *Claim) Encode() []byte {
	buf := make([]byte, 0, hash.DigestLen*8+4+3*core.DigestSize+16)
	buf = append(buf, core.DigestToBytes(c.ProgramDigest)...)
	buf = binary.BigEndian.AppendUint32(buf, c.Version)
	buf = append(buf, c.InputDigest[:]...)
	buf = append(buf, c.ExpectedHash[:]...)
	buf = append(buf, c.OutputDigest[:]...)
	buf = binary.BigEndian.AppendUint64(buf, c.OutputLen)
	buf = binary.BigEndian.AppendUint64(buf, c.Cycles)
	return buf
}

// Hash computes the Tip5 digest of the claim
func (c *Claim) Hash() hash.Digest {
	return core.HashBytes(c.Encode())
}
