package vybiumhex0

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
)

// ErrorCode represents a vybium-hex0 error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidInput represents a malformed digest or public-input record.
	// Malformed hex0 source is never an error.
	ErrInvalidInput

	// ErrHashMismatch represents the fatal digest-contract violation: the
	// decoded output does not hash to the expected digest. Callers must halt.
	ErrHashMismatch

	// ErrProofGeneration represents a receipt generation error
	ErrProofGeneration

	// ErrProofVerification represents a rejected receipt
	ErrProofVerification

	// ErrEncoding represents a serialization error
	ErrEncoding
)

// String returns the name of the error code
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "invalid config"
	case ErrInvalidInput:
		return "invalid input"
	case ErrHashMismatch:
		return "hash mismatch"
	case ErrProofGeneration:
		return "proof generation"
	case ErrProofVerification:
		return "proof verification"
	case ErrEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// Error represents a vybium-hex0 error
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-hex0 error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-hex0 error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsHashMismatch reports whether err is, or wraps, the fatal digest
// mismatch. This includes receipts rejected for claiming a mismatching output.
func IsHashMismatch(err error) bool {
	return errors.Is(err, &Error{Code: ErrHashMismatch}) || errors.Is(err, core.ErrHashMismatch)
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
