package vm

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
)

// TraceRowWidth is the number of field elements in an encoded TraceRow.
const TraceRowWidth = 9

// TraceRow is the decoder state before consuming the byte at Step, together
// with that byte and what the step emitted.
//
// The last row of a trace has Step == len(source), no input and no emission;
// it records the terminal state.
type TraceRow struct {
	Step       uint64 `cbor:"1,keyasint"`
	Hold       uint8  `cbor:"2,keyasint"`
	HaveHigh   bool   `cbor:"3,keyasint"`
	InComment  bool   `cbor:"4,keyasint"`
	OutLen     uint64 `cbor:"5,keyasint"`
	HasInput   bool   `cbor:"6,keyasint"`
	Input      uint8  `cbor:"7,keyasint"`
	HasEmitted bool   `cbor:"8,keyasint"`
	Emitted    uint8  `cbor:"9,keyasint"`
}

// State returns the decoder state this row records.
func (r TraceRow) State() core.State {
	return core.State{Hold: r.Hold, HaveHigh: r.HaveHigh, InComment: r.InComment}
}

// Elements encodes the row for hashing.
func (r TraceRow) Elements() []field.Element {
	return []field.Element{
		field.New(r.Step),
		field.New(uint64(r.Hold)),
		boolElement(r.HaveHigh),
		boolElement(r.InComment),
		field.New(r.OutLen),
		boolElement(r.HasInput),
		field.New(uint64(r.Input)),
		boolElement(r.HasEmitted),
		field.New(uint64(r.Emitted)),
	}
}

// Digest is the Tip5 leaf digest of the row.
func (r TraceRow) Digest() hash.Digest {
	return core.HashElements(r.Elements())
}

func boolElement(b bool) field.Element {
	if b {
		return field.One
	}
	return field.Zero
}

// TraceRecorder accumulates one row per consumed byte plus a terminal row.
type TraceRecorder struct {
	rows     []TraceRow
	finished bool
}

// NewTraceRecorder preallocates room for a source of the given length.
func NewTraceRecorder(sourceLen int) *TraceRecorder {
	return &TraceRecorder{rows: make([]TraceRow, 0, sourceLen+1)}
}

// RecordStep records the state before input was consumed and the result of
// consuming it.
func (tr *TraceRecorder) RecordStep(before core.State, outLen int, input byte, out byte, emitted bool) error {
	if tr.finished {
		return fmt.Errorf("trace already finished")
	}
	row := TraceRow{
		Step:      uint64(len(tr.rows)),
		Hold:      before.Hold,
		HaveHigh:  before.HaveHigh,
		InComment: before.InComment,
		OutLen:    uint64(outLen),
		HasInput:  true,
		Input:     input,
	}
	if emitted {
		row.HasEmitted = true
		row.Emitted = out
	}
	tr.rows = append(tr.rows, row)
	return nil
}

// Finish appends the terminal row and returns the trace.
func (tr *TraceRecorder) Finish(final core.State, outLen int) ([]TraceRow, error) {
	if tr.finished {
		return nil, fmt.Errorf("trace already finished")
	}
	tr.rows = append(tr.rows, TraceRow{
		Step:      uint64(len(tr.rows)),
		Hold:      final.Hold,
		HaveHigh:  final.HaveHigh,
		InComment: final.InComment,
		OutLen:    uint64(outLen),
	})
	tr.finished = true
	return tr.rows, nil
}
