// Package protocols implements the receipt protocol over the guest program's
// step trace: claim, trace commitment, Fiat-Shamir openings and
// verification.
package protocols

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/codec"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/utils"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/vm"
)

// Prover generates receipts for runs of the guest program.
//
// The Prover implements the following workflow:
// 1. Runs the guest program, recording one trace row per source byte
// 2. Commits to the trace with a Tip5 Merkle tree
// 3. Builds the claim from the public inputs and the run
// 4. Absorbs parameters, claim and trace root into the transcript
// 5. Opens the first and last rows and the sampled transitions
type Prover struct {
	config  *utils.Config
	machine *vm.Machine
	logger  logrus.FieldLogger
}

// NewProver creates a new prover with the given configuration. A nil logger
// discards all output.
func NewProver(config *utils.Config, logger logrus.FieldLogger) (*Prover, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Prover{
		config:  config.Clone(),
		machine: vm.NewMachine(),
		logger:  logger,
	}, nil
}

// Prove runs the guest program over inputs and returns a receipt for it.
//
// A run whose output does not hash to the expected digest is unprovable; the
// error wraps core.ErrHashMismatch.
func (p *Prover) Prove(inputs codec.PublicInputs) (*Receipt, error) {
	exec, err := p.machine.RunInputs(inputs)
	if err != nil {
		return nil, fmt.Errorf("execution is unprovable: %w", err)
	}
	p.logger.WithFields(logrus.Fields{
		"cycles":     exec.Cycles(),
		"output_len": len(exec.Output),
	}).Debug("guest program executed")

	claim := NewClaim(ProgramDigest()).WithInputs(inputs).WithExecution(exec)
	if err := claim.Validate(); err != nil {
		return nil, fmt.Errorf("invalid claim: %w", err)
	}

	params := Params{
		NumQueries:   p.config.NumQueries,
		HashFunction: p.config.HashFunction,
	}
	receipt, err := buildReceipt(params, claim, exec.Trace, p.logger)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"trace_height": receipt.TraceHeight,
		"openings":     len(receipt.Transitions),
	}).Debug("receipt generated")
	return receipt, nil
}

// buildReceipt commits to trace and opens the rows the transcript selects.
func buildReceipt(params Params, claim *Claim, trace []vm.TraceRow, logger logrus.FieldLogger) (*Receipt, error) {
	height := uint64(len(trace))
	if height == 0 {
		return nil, fmt.Errorf("trace is empty")
	}
	tree, err := commitToTrace(trace)
	if err != nil {
		return nil, fmt.Errorf("failed to commit to trace: %w", err)
	}

	ch := newTranscript(params, claim, tree.Root(), height)
	indices, err := sampleTransitions(ch, height-1, params.NumQueries)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Params:      params,
		Claim:       *claim,
		TraceRoot:   tree.Root(),
		TraceHeight: height,
		Transitions: make([]TransitionOpening, 0, len(indices)),
	}
	if receipt.Initial, err = openRow(tree, trace, 0); err != nil {
		return nil, err
	}
	if receipt.Final, err = openRow(tree, trace, height-1); err != nil {
		return nil, err
	}
	for _, i := range indices {
		current, err := openRow(tree, trace, i)
		if err != nil {
			return nil, err
		}
		next, err := openRow(tree, trace, i+1)
		if err != nil {
			return nil, err
		}
		receipt.Transitions = append(receipt.Transitions, TransitionOpening{Current: current, Next: next})
	}
	logger.WithFields(logrus.Fields{
		"ops":        len(ch.Proof()),
		"transcript": ch.String(),
	}).Trace("transcript recorded")
	return receipt, nil
}

// commitToTrace builds the Merkle tree over the row digests, padded with
// zero digests to a power of two.
func commitToTrace(trace []vm.TraceRow) (*core.MerkleTree, error) {
	leaves := make([]hash.Digest, paddedHeight(uint64(len(trace))))
	for i, row := range trace {
		leaves[i] = row.Digest()
	}
	return core.NewMerkleTree(leaves)
}

func openRow(tree *core.MerkleTree, trace []vm.TraceRow, index uint64) (RowOpening, error) {
	if index >= uint64(len(trace)) {
		return RowOpening{}, fmt.Errorf("row %d out of range [0, %d)", index, len(trace))
	}
	path, err := tree.AuthPath(int(index))
	if err != nil {
		return RowOpening{}, fmt.Errorf("failed to open row %d: %w", index, err)
	}
	return RowOpening{Row: trace[index], Path: path}, nil
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
