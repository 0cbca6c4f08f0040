package protocols

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/codec"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/utils"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/vm"
)

// ErrVerificationFailed is wrapped by every receipt rejection.
var ErrVerificationFailed = errors.New("receipt verification failed")

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrVerificationFailed, fmt.Sprintf(format, args...))
}

// Verifier checks receipts against public inputs.
type Verifier struct {
	config *utils.Config
	logger logrus.FieldLogger
}

// NewVerifier creates a verifier. Receipts must carry at least
// config.NumQueries sampled openings.
func NewVerifier(config *utils.Config, logger logrus.FieldLogger) (*Verifier, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Verifier{config: config.Clone(), logger: logger}, nil
}

// Verify checks that receipt attests a verified run of the guest program over
// inputs. Every rejection wraps ErrVerificationFailed. The claimed output is
// checked against a decode of the public source; when either the claim or
// that decode misses the expected digest the error also wraps
// core.ErrHashMismatch.
func (v *Verifier) Verify(receipt *Receipt, inputs codec.PublicInputs) error {
	if receipt == nil {
		return rejectf("receipt cannot be nil")
	}
	if err := v.verifyParams(receipt.Params); err != nil {
		return err
	}
	if err := v.verifyClaim(&receipt.Claim, inputs); err != nil {
		return err
	}

	src := inputs.SourceBytes
	steps := uint64(len(src))
	if receipt.TraceHeight != steps+1 {
		return rejectf("trace height %d, want %d", receipt.TraceHeight, steps+1)
	}
	pathLen := utils.Log2(paddedHeight(receipt.TraceHeight))

	check := func(o RowOpening, index uint64) error {
		return v.verifyOpening(receipt, o, index, pathLen, src)
	}

	if err := check(receipt.Initial, 0); err != nil {
		return err
	}
	initial := receipt.Initial.Row
	if initial.State() != (core.State{}) || initial.OutLen != 0 {
		return rejectf("initial row is not the reset state")
	}

	if err := check(receipt.Final, steps); err != nil {
		return err
	}
	if receipt.Final.Row.OutLen != receipt.Claim.OutputLen {
		return rejectf("final row output length %d, claimed %d", receipt.Final.Row.OutLen, receipt.Claim.OutputLen)
	}

	ch := newTranscript(receipt.Params, &receipt.Claim, receipt.TraceRoot, receipt.TraceHeight)
	indices, err := sampleTransitions(ch, steps, receipt.Params.NumQueries)
	if err != nil {
		return rejectf("%v", err)
	}
	if len(receipt.Transitions) != len(indices) {
		return rejectf("receipt opens %d transitions, transcript samples %d", len(receipt.Transitions), len(indices))
	}

	for k, i := range indices {
		t := receipt.Transitions[k]
		if err := check(t.Current, i); err != nil {
			return err
		}
		if err := check(t.Next, i+1); err != nil {
			return err
		}
		if err := verifyTransition(t.Current.Row, t.Next.Row, src[i]); err != nil {
			return rejectf("step %d: %v", i, err)
		}
	}

	v.logger.WithField("transcript", ch.String()).Trace("replayed transcript")
	v.logger.WithFields(logrus.Fields{
		"cycles":      receipt.Claim.Cycles,
		"transitions": len(indices),
		"transcript":  len(ch.Proof()),
	}).Debug("receipt verified")
	return nil
}

func (v *Verifier) verifyParams(params Params) error {
	if params.HashFunction != "sha3" && params.HashFunction != "sha256" {
		return rejectf("unsupported transcript hash %q", params.HashFunction)
	}
	if params.NumQueries < v.config.NumQueries {
		return rejectf("receipt samples %d queries, at least %d required", params.NumQueries, v.config.NumQueries)
	}
	if params.NumQueries > utils.MaxQueries {
		return rejectf("receipt samples %d queries, at most %d allowed", params.NumQueries, utils.MaxQueries)
	}
	return nil
}

func (v *Verifier) verifyClaim(claim *Claim, inputs codec.PublicInputs) error {
	if !core.DigestsEqual(claim.ProgramDigest, ProgramDigest()) {
		return rejectf("receipt is for a different program")
	}
	if claim.Version != CurrentVersion {
		return rejectf("claim version %d, want %d", claim.Version, CurrentVersion)
	}
	if claim.InputDigest != core.SumDigest(inputs.SourceBytes) {
		return rejectf("claim is for a different source")
	}
	if claim.ExpectedHash != inputs.ExpectedHash {
		return rejectf("claim is for a different expected hash")
	}
	if claim.OutputDigest != inputs.ExpectedHash {
		return fmt.Errorf("%w: %w", ErrVerificationFailed, core.ErrHashMismatch)
	}

	// The source is public, so the claimed output is recomputed rather than
	// trusted.
	output := core.Decode(inputs.SourceBytes)
	if err := core.VerifyDigest(output, inputs.ExpectedHash); err != nil {
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	if claim.OutputLen != uint64(len(output)) {
		return rejectf("claim reports %d output bytes, source decodes to %d", claim.OutputLen, len(output))
	}
	if claim.Cycles != uint64(len(inputs.SourceBytes)) {
		return rejectf("claim reports %d cycles for %d source bytes", claim.Cycles, len(inputs.SourceBytes))
	}
	return nil
}

func (v *Verifier) verifyOpening(receipt *Receipt, o RowOpening, index uint64, pathLen int, src []byte) error {
	row := o.Row
	if row.Step != index {
		return rejectf("row %d reports step %d", index, row.Step)
	}
	if index < uint64(len(src)) {
		if !row.HasInput || row.Input != src[index] {
			return rejectf("row %d does not consume source byte %d", index, index)
		}
	} else if row.HasInput || row.HasEmitted {
		return rejectf("terminal row %d consumes input", index)
	}
	if len(o.Path) != pathLen {
		return rejectf("row %d has a path of length %d, want %d", index, len(o.Path), pathLen)
	}
	if !core.VerifyAuthPath(receipt.TraceRoot, row.Digest(), int(index), o.Path) {
		return rejectf("row %d is not in the trace commitment", index)
	}
	return nil
}

// verifyTransition replays one decoder step between two committed rows.
func verifyTransition(current, next vm.TraceRow, c byte) error {
	want, out, emitted, _ := core.Step(current.State(), c)
	if next.State() != want {
		return fmt.Errorf("state after %q does not follow the decoder", c)
	}
	if current.HasEmitted != emitted || (emitted && current.Emitted != out) {
		return fmt.Errorf("emitted byte does not follow the decoder")
	}
	wantLen := current.OutLen
	if emitted {
		wantLen++
	}
	if next.OutLen != wantLen {
		return fmt.Errorf("output length %d, want %d", next.OutLen, wantLen)
	}
	return nil
}
