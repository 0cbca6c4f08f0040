// Package vm runs the hex0 guest program: read the public-input record,
// decode the source while recording a step trace, and assert that the output
// hashes to the expected digest.
package vm

import (
	"fmt"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/codec"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
)

// Status is the outcome of the digest check.
type Status int

const (
	// StatusPending means the digest has not been checked yet.
	StatusPending Status = iota
	// StatusVerified means the output hashed to the expected digest.
	StatusVerified
	// StatusAborted means the digests differed and the run halted.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusVerified:
		return "verified"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Execution is everything one run of the guest program produced.
type Execution struct {
	Inputs       codec.PublicInputs
	Output       []byte
	OutputDigest core.Digest
	Trace        []TraceRow
	Stats        core.Stats
	Status       Status
}

// Cycles is the number of decoder steps, one per source byte.
func (e *Execution) Cycles() uint64 {
	return e.Stats.Steps
}

// Machine executes the guest program. It holds no state between runs.
type Machine struct{}

// NewMachine creates a machine.
func NewMachine() *Machine {
	return &Machine{}
}

// Run executes the guest program over a serialized public-input record.
func (m *Machine) Run(record []byte) (*Execution, error) {
	inputs, err := codec.DecodePublicInputs(record)
	if err != nil {
		return nil, fmt.Errorf("reading public inputs: %w", err)
	}
	return m.RunInputs(inputs)
}

// RunInputs executes the guest program over an already decoded record.
//
// On a digest mismatch the returned Execution is marked StatusAborted and the
// error wraps core.ErrHashMismatch. The run must not be retried.
func (m *Machine) RunInputs(inputs codec.PublicInputs) (*Execution, error) {
	src := inputs.SourceBytes
	recorder := NewTraceRecorder(len(src))
	decoder := core.NewDecoder()

	for i, c := range src {
		before := decoder.State()
		outLen := decoder.Len()
		out, emitted := decoder.Feed(c)
		if err := recorder.RecordStep(before, outLen, c, out, emitted); err != nil {
			return nil, fmt.Errorf("recording step %d: %w", i, err)
		}
	}

	trace, err := recorder.Finish(decoder.State(), decoder.Len())
	if err != nil {
		return nil, fmt.Errorf("finishing trace: %w", err)
	}

	exec := &Execution{
		Inputs: inputs,
		Output: decoder.Bytes(),
		Trace:  trace,
		Stats:  decoder.Stats(),
		Status: StatusPending,
	}
	exec.OutputDigest = core.SumDigest(exec.Output)

	if err := core.VerifyDigest(exec.Output, inputs.ExpectedHash); err != nil {
		exec.Status = StatusAborted
		return exec, fmt.Errorf("guest program halted: %w", err)
	}
	exec.Status = StatusVerified
	return exec, nil
}
