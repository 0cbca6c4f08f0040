package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/codec"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/vm"
)

// Params are the receipt parameters chosen by the prover. They are absorbed
// into the transcript before anything else.
type Params struct {
	NumQueries   int
	HashFunction string
}

// RowOpening is a committed trace row with its Merkle authentication path.
type RowOpening struct {
	Row  vm.TraceRow
	Path []hash.Digest
}

// TransitionOpening opens two consecutive rows so the verifier can replay
// the step between them.
type TransitionOpening struct {
	Current RowOpening
	Next    RowOpening
}

// Receipt attests that the guest program ran over the public inputs and that
// the output hashed to the expected digest.
//
// The trace is committed to with a Tip5 Merkle tree. The first and last rows
// are always opened; the remaining transitions are sampled from the
// Fiat-Shamir transcript over the claim and the trace root.
type Receipt struct {
	Params      Params
	Claim       Claim
	TraceRoot   hash.Digest
	TraceHeight uint64
	Initial     RowOpening
	Final       RowOpening
	Transitions []TransitionOpening
}

type claimWire struct {
	ProgramDigest []uint64 `cbor:"program_digest"`
	Version       uint32   `cbor:"version"`
	InputDigest   []byte   `cbor:"input_digest"`
	ExpectedHash  []byte   `cbor:"expected_hash"`
	OutputDigest  []byte   `cbor:"output_digest"`
	OutputLen     uint64   `cbor:"output_len"`
	Cycles        uint64   `cbor:"cycles"`
}

type rowOpeningWire struct {
	Row  vm.TraceRow `cbor:"row"`
	Path [][]uint64  `cbor:"path"`
}

type transitionWire struct {
	Current rowOpeningWire `cbor:"current"`
	Next    rowOpeningWire `cbor:"next"`
}

type receiptWire struct {
	NumQueries   int              `cbor:"num_queries"`
	HashFunction string           `cbor:"hash_function"`
	Claim        claimWire        `cbor:"claim"`
	TraceRoot    []uint64         `cbor:"trace_root"`
	TraceHeight  uint64           `cbor:"trace_height"`
	Initial      rowOpeningWire   `cbor:"initial"`
	Final        rowOpeningWire   `cbor:"final"`
	Transitions  []transitionWire `cbor:"transitions"`
}

// EncodeReceipt serializes a receipt with deterministic CBOR.
func EncodeReceipt(r *Receipt) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("receipt cannot be nil")
	}
	wire := receiptWire{
		NumQueries:   r.Params.NumQueries,
		HashFunction: r.Params.HashFunction,
		Claim: claimWire{
			ProgramDigest: core.DigestToWords(r.Claim.ProgramDigest),
			Version:       r.Claim.Version,
			InputDigest:   r.Claim.InputDigest[:],
			ExpectedHash:  r.Claim.ExpectedHash[:],
			OutputDigest:  r.Claim.OutputDigest[:],
			OutputLen:     r.Claim.OutputLen,
			Cycles:        r.Claim.Cycles,
		},
		TraceRoot:   core.DigestToWords(r.TraceRoot),
		TraceHeight: r.TraceHeight,
		Initial:     openingToWire(r.Initial),
		Final:       openingToWire(r.Final),
		Transitions: make([]transitionWire, len(r.Transitions)),
	}
	for i, t := range r.Transitions {
		wire.Transitions[i] = transitionWire{
			Current: openingToWire(t.Current),
			Next:    openingToWire(t.Next),
		}
	}

	data, err := codec.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding receipt: %w", err)
	}
	return data, nil
}

// DecodeReceipt parses a receipt produced by EncodeReceipt. It checks the
// encoding only; use a Verifier to check the receipt itself.
func DecodeReceipt(data []byte) (*Receipt, error) {
	var wire receiptWire
	if err := codec.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding receipt: %w", err)
	}

	r := &Receipt{
		Params: Params{
			NumQueries:   wire.NumQueries,
			HashFunction: wire.HashFunction,
		},
		TraceHeight: wire.TraceHeight,
		Transitions: make([]TransitionOpening, len(wire.Transitions)),
	}

	var err error
	if r.Claim, err = claimFromWire(wire.Claim); err != nil {
		return nil, err
	}
	if r.TraceRoot, err = core.DigestFromWords(wire.TraceRoot); err != nil {
		return nil, fmt.Errorf("decoding trace root: %w", err)
	}
	if r.Initial, err = openingFromWire(wire.Initial); err != nil {
		return nil, fmt.Errorf("decoding initial row: %w", err)
	}
	if r.Final, err = openingFromWire(wire.Final); err != nil {
		return nil, fmt.Errorf("decoding final row: %w", err)
	}
	for i, t := range wire.Transitions {
		if r.Transitions[i].Current, err = openingFromWire(t.Current); err != nil {
			return nil, fmt.Errorf("decoding transition %d: %w", i, err)
		}
		if r.Transitions[i].Next, err = openingFromWire(t.Next); err != nil {
			return nil, fmt.Errorf("decoding transition %d: %w", i, err)
		}
	}
	return r, nil
}

func claimFromWire(w claimWire) (Claim, error) {
	var c Claim
	programDigest, err := core.DigestFromWords(w.ProgramDigest)
	if err != nil {
		return c, fmt.Errorf("decoding program digest: %w", err)
	}
	c.ProgramDigest = programDigest
	c.Version = w.Version
	c.OutputLen = w.OutputLen
	c.Cycles = w.Cycles

	for _, f := range []struct {
		name string
		src  []byte
		dst  *core.Digest
	}{
		{"input_digest", w.InputDigest, &c.InputDigest},
		{"expected_hash", w.ExpectedHash, &c.ExpectedHash},
		{"output_digest", w.OutputDigest, &c.OutputDigest},
	} {
		if len(f.src) != core.DigestSize {
			return c, fmt.Errorf("%s is %d bytes, want %d", f.name, len(f.src), core.DigestSize)
		}
		copy(f.dst[:], f.src)
	}
	return c, nil
}

func openingToWire(o RowOpening) rowOpeningWire {
	path := make([][]uint64, len(o.Path))
	for i, d := range o.Path {
		path[i] = core.DigestToWords(d)
	}
	return rowOpeningWire{Row: o.Row, Path: path}
}

func openingFromWire(w rowOpeningWire) (RowOpening, error) {
	path := make([]hash.Digest, len(w.Path))
	for i, words := range w.Path {
		d, err := core.DigestFromWords(words)
		if err != nil {
			return RowOpening{}, fmt.Errorf("path node %d: %w", i, err)
		}
		path[i] = d
	}
	return RowOpening{Row: w.Row, Path: path}, nil
}
