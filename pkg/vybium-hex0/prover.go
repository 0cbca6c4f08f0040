package vybiumhex0

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/protocols"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/vm"
)

// Prover is the public interface for receipt generation
type Prover interface {
	// Prove runs the guest program over inputs and returns a receipt
	Prove(inputs PublicInputs) (*Receipt, error)
}

// Verifier is the public interface for receipt verification
type Verifier interface {
	// Verify checks that receipt attests a verified run over inputs
	Verify(receipt *Receipt, inputs PublicInputs) error
}

// proverImpl is the internal implementation of Prover
type proverImpl struct {
	prover *protocols.Prover
}

// verifierImpl is the internal implementation of Verifier
type verifierImpl struct {
	verifier *protocols.Verifier
}

// NewProver creates a prover. A nil config selects DefaultConfig and a nil
// logger discards output.
func NewProver(config *Config, logger logrus.FieldLogger) (Prover, error) {
	if config == nil {
		config = DefaultConfig()
	}
	p, err := protocols.NewProver(config.toInternal(), logger)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "failed to create prover", err)
	}
	return &proverImpl{prover: p}, nil
}

// Prove runs the guest program over inputs and returns a receipt
func (p *proverImpl) Prove(inputs PublicInputs) (*Receipt, error) {
	receipt, err := p.prover.Prove(inputs)
	if err != nil {
		if errors.Is(err, core.ErrHashMismatch) {
			return nil, newError(ErrHashMismatch, "execution is unprovable", err)
		}
		return nil, newError(ErrProofGeneration, "failed to generate receipt", err)
	}
	return receipt, nil
}

// NewVerifier creates a verifier. A nil config selects DefaultConfig and a
// nil logger discards output.
func NewVerifier(config *Config, logger logrus.FieldLogger) (Verifier, error) {
	if config == nil {
		config = DefaultConfig()
	}
	v, err := protocols.NewVerifier(config.toInternal(), logger)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "failed to create verifier", err)
	}
	return &verifierImpl{verifier: v}, nil
}

// Verify checks that receipt attests a verified run over inputs
func (v *verifierImpl) Verify(receipt *Receipt, inputs PublicInputs) error {
	if err := v.verifier.Verify(receipt, inputs); err != nil {
		return newError(ErrProofVerification, "receipt rejected", err)
	}
	return nil
}

// Execute runs the guest program without producing a receipt.
//
// On a digest mismatch the report is still returned, with Status "aborted",
// together with an ErrHashMismatch error.
func Execute(inputs PublicInputs) (*ExecutionReport, error) {
	exec, err := vm.NewMachine().RunInputs(inputs)
	return reportExecution(exec, err)
}

// ExecuteRecord runs the guest program over a serialized public-input record,
// the way a proving context feeds it.
func ExecuteRecord(record []byte) (*ExecutionReport, error) {
	exec, err := vm.NewMachine().Run(record)
	return reportExecution(exec, err)
}

func reportExecution(exec *vm.Execution, err error) (*ExecutionReport, error) {
	if exec == nil {
		return nil, newError(ErrInvalidInput, "failed to execute guest program", err)
	}
	report := &ExecutionReport{
		Cycles:       exec.Cycles(),
		Output:       exec.Output,
		OutputDigest: exec.OutputDigest,
		Stats:        exec.Stats,
		Status:       exec.Status.String(),
	}
	if err != nil {
		return report, newError(ErrHashMismatch, "guest program aborted", err)
	}
	return report, nil
}

// ProgramDigest returns the hex-encoded Tip5 digest identifying the guest
// program. Receipts for any other program are rejected.
func ProgramDigest() string {
	return fmt.Sprintf("%x", core.DigestToBytes(protocols.ProgramDigest()))
}

// EncodeReceipt serializes a receipt with deterministic CBOR.
func EncodeReceipt(receipt *Receipt) ([]byte, error) {
	data, err := protocols.EncodeReceipt(receipt)
	if err != nil {
		return nil, newError(ErrEncoding, "failed to encode receipt", err)
	}
	return data, nil
}

// DecodeReceipt parses a receipt produced by EncodeReceipt.
func DecodeReceipt(data []byte) (*Receipt, error) {
	receipt, err := protocols.DecodeReceipt(data)
	if err != nil {
		return nil, newError(ErrEncoding, "failed to decode receipt", err)
	}
	return receipt, nil
}
