// Package vybiumhex0 decodes hex0 bootstrap sources and attests that the
// decoded binary hashes to a publicly stated SHA-256 digest.
//
// hex0 is the first stage of minimal-bootstrap toolchains: machine code
// written as pairs of hexadecimal digits, with '#' and ';' starting comments
// that run to the end of the line. Everything else is a separator.
//
// # Features
//
// - Total, deterministic, single-pass decoder with O(1) state
// - Streaming decoder (io.Writer) equivalent to one-shot decoding
// - SHA-256 digest contract with a fatal mismatch outcome
// - Deterministic CBOR public-input record
// - Guest program execution with a per-byte step trace
// - Receipts: Tip5 Merkle trace commitment, Fiat-Shamir sampled openings
//
// # Quick Start
//
// Decoding a source and checking its digest:
//
//	out := vybiumhex0.Decode(src)
//	expected, err := vybiumhex0.ParseDigest(expectedHex)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := vybiumhex0.VerifyDigest(out, expected); err != nil {
//		log.Fatal(err) // never retry a mismatch
//	}
//
// Generating and checking a receipt:
//
//	inputs := vybiumhex0.PublicInputs{SourceBytes: src, ExpectedHash: expected}
//	prover, err := vybiumhex0.NewProver(vybiumhex0.DefaultConfig(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	receipt, err := prover.Prove(inputs)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	verifier, err := vybiumhex0.NewVerifier(vybiumhex0.DefaultConfig(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := verifier.Verify(receipt, inputs); err != nil {
//		log.Fatal(err)
//	}
//
// # Decoding Rules
//
// - A hex digit (case-insensitive) is a nibble; two nibbles make one byte,
// high nibble first
// - '#' or ';' skips every byte up to the next newline or the end of input
// - Any other byte is ignored
// - An odd trailing digit is dropped
//
// Malformed source is never rejected. Output length is always half the number
// of hex digits outside comments, rounded down.
//
// # Architecture
//
// - pkg/vybium-hex0/: Public API (this package)
// - internal/vybium-hex0/core: decoder, digest contract, Tip5 Merkle tree
// - internal/vybium-hex0/codec: deterministic CBOR
// - internal/vybium-hex0/vm: guest program and trace recorder
// - internal/vybium-hex0/protocols: claim, receipt, prover, verifier
// - internal/vybium-hex0/utils: config and Fiat-Shamir channel
package vybiumhex0
