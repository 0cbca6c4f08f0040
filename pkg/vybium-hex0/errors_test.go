package vybiumhex0

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("CodeNames", func(t *testing.T) {
		codes := map[ErrorCode]string{
			ErrUnknown:           "unknown",
			ErrInvalidConfig:     "invalid config",
			ErrInvalidInput:      "invalid input",
			ErrHashMismatch:      "hash mismatch",
			ErrProofGeneration:   "proof generation",
			ErrProofVerification: "proof verification",
			ErrEncoding:          "encoding",
		}
		for code, name := range codes {
			assert.Equal(t, name, code.String())
		}
	})

	t.Run("MatchByCode", func(t *testing.T) {
		err := newError(ErrInvalidInput, "bad digest", nil)
		assert.True(t, errors.Is(err, &Error{Code: ErrInvalidInput}))
		assert.False(t, errors.Is(err, &Error{Code: ErrHashMismatch}))
		assert.False(t, errors.Is(err, fmt.Errorf("other")))
	})
}

func TestErrorMessages(t *testing.T) {
	t.Run("WithoutCause", func(t *testing.T) {
		err := newError(ErrEncoding, "bad record", nil)
		assert.Equal(t, "vybium-hex0 error [encoding]: bad record", err.Error())
	})

	t.Run("ErrorWrapping", func(t *testing.T) {
		cause := errors.New("short read")
		err := fmt.Errorf("loading: %w", newError(ErrInvalidInput, "failed to read", cause))

		assert.Contains(t, err.Error(), "caused by: short read")
		assert.ErrorIs(t, err, cause)

		var hexErr *Error
		require.ErrorAs(t, err, &hexErr)
		assert.Equal(t, ErrInvalidInput, hexErr.Code)
	})
}

func TestIsHashMismatch(t *testing.T) {
	mismatch := VerifyDigest([]byte("A"), SumDigest([]byte("B")))
	require.Error(t, mismatch)

	assert.True(t, IsHashMismatch(mismatch))
	assert.True(t, IsHashMismatch(fmt.Errorf("wrapped: %w", mismatch)))
	assert.False(t, IsHashMismatch(newError(ErrInvalidInput, "bad digest", nil)))
	assert.False(t, IsHashMismatch(nil))
}
