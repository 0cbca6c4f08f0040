package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Channel is the Fiat-Shamir transcript shared by prover and verifier.
// Everything sent is absorbed into a running digest; indices are squeezed
// out of that digest, so both sides sample the same openings.
type Channel struct {
	digest   []byte
	log      []string
	hashFunc string
}

// NewChannel creates a transcript over "sha3" (the default) or "sha256".
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	return &Channel{
		digest:   []byte{0},
		log:      make([]string, 0, 8),
		hashFunc: hashFunc,
	}
}

// Send absorbs data.
func (c *Channel) Send(data []byte) {
	buf := make([]byte, 0, len(c.digest)+len(data))
	buf = append(buf, c.digest...)
	buf = append(buf, data...)
	c.digest = c.sum(buf)
	c.log = append(c.log, "send:"+hex.EncodeToString(data))
}

// SendUint64 absorbs v as 8 big-endian bytes.
func (c *Channel) SendUint64(v uint64) {
	c.Send(binary.BigEndian.AppendUint64(nil, v))
}

// ReceiveIndex squeezes an index in [0, n) and advances the transcript.
// The 256-bit digest is reduced mod n; for trace heights the bias is
// negligible.
func (c *Channel) ReceiveIndex(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("cannot sample an index from an empty range")
	}
	idx := new(big.Int).SetBytes(c.digest)
	idx.Mod(idx, new(big.Int).SetUint64(n))

	c.log = append(c.log, fmt.Sprintf("index:%d/%d", idx.Uint64(), n))
	c.digest = c.sum(c.digest)
	return idx.Uint64(), nil
}

// State returns a copy of the running digest.
func (c *Channel) State() []byte {
	return append([]byte(nil), c.digest...)
}

// Proof returns the transcript operations in order.
func (c *Channel) Proof() []string {
	return append([]string(nil), c.log...)
}

func (c *Channel) sum(data []byte) []byte {
	if c.hashFunc == "sha256" {
		h := sha256.Sum256(data)
		return h[:]
	}
	h := sha3.Sum256(data)
	return h[:]
}

// String renders the transcript, one operation per space-separated token.
func (c *Channel) String() string {
	return strings.Join(c.log, " ")
}
