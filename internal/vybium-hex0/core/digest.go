package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// DigestSize is the length of a SHA-256 digest in bytes.
const DigestSize = sha256.Size

// Digest is a SHA-256 digest of decoded output.
type Digest [DigestSize]byte

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// SumDigest hashes output with SHA-256.
func SumDigest(output []byte) Digest {
	return Digest(sha256.Sum256(output))
}

// ParseDigest parses a 64-character hex digest. An optional 0x prefix and
// surrounding whitespace are accepted.
func ParseDigest(s string) (Digest, error) {
	var digest Digest
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != DigestSize {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), DigestSize)
	}
	copy(digest[:], decoded)
	return digest, nil
}

// ErrHashMismatch is the fatal outcome of the digest contract.
var ErrHashMismatch = errors.New("hash mismatch")

// MismatchError reports the two digests that disagreed.
type MismatchError struct {
	Expected Digest
	Actual   Digest
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("hash mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrHashMismatch) hold for any *MismatchError.
func (e *MismatchError) Is(target error) bool {
	return target == ErrHashMismatch
}

// VerifyDigest hashes output and compares it with expected. A non-nil result
// is unrecoverable; callers halt instead of retrying.
func VerifyDigest(output []byte, expected Digest) error {
	actual := SumDigest(output)
	if actual != expected {
		return &MismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// MustVerifyDigest is the assertion form of VerifyDigest. It panics on
// mismatch.
func MustVerifyDigest(output []byte, expected Digest) {
	if actual := SumDigest(output); actual != expected {
		panic(fmt.Sprintf("Hash mismatch: expected %s, got %s", expected, actual))
	}
}
