// Package core implements the hex0 decoder, the SHA-256 digest contract and
// the Tip5 commitment primitives used by the receipt protocol.
package core

import (
	"bytes"
	"io"
)

// Comment markers. A marker hides every byte up to, but not including, the
// next newline.
const (
	CommentHash      byte = '#'
	CommentSemicolon byte = ';'
	Newline          byte = '\n'
)

// nibbles maps an ASCII hex digit to its value + 1; every other byte maps to 0.
var nibbles = [256]byte{
	'0': 0x1, '1': 0x2, '2': 0x3, '3': 0x4, '4': 0x5,
	'5': 0x6, '6': 0x7, '7': 0x8, '8': 0x9, '9': 0xa,
	'a': 0xb, 'b': 0xc, 'c': 0xd, 'd': 0xe, 'e': 0xf, 'f': 0x10,
	'A': 0xb, 'B': 0xc, 'C': 0xd, 'D': 0xe, 'E': 0xf, 'F': 0x10,
}

// HexValue returns the 4-bit value of an ASCII hex digit.
func HexValue(c byte) (byte, bool) {
	v := nibbles[c]
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// IsCommentMarker reports whether c starts a comment.
func IsCommentMarker(c byte) bool {
	return c == CommentHash || c == CommentSemicolon
}

// ByteClass is how the decoder treated one input byte.
type ByteClass uint8

const (
	// ClassIgnored is a separator: whitespace, punctuation, non-hex letters.
	ClassIgnored ByteClass = iota
	// ClassHexDigit is a nibble that was paired or held.
	ClassHexDigit
	// ClassComment is a comment marker or a byte inside a comment.
	ClassComment
)

// State is the decoder's entire mutable state.
//
// Hold is only meaningful while HaveHigh is set. InComment folds the
// scan-to-newline of a comment into the same single pass, which also lets a
// decoder be fed in arbitrary chunks.
type State struct {
	Hold      byte
	HaveHigh  bool
	InComment bool
}

// Step consumes one byte. It returns the next state, the emitted byte (valid
// only when emitted is true) and how c was classified.
func Step(s State, c byte) (next State, out byte, emitted bool, class ByteClass) {
	if s.InComment {
		if c == Newline {
			// The newline itself is a plain separator.
			s.InComment = false
			return s, 0, false, ClassIgnored
		}
		return s, 0, false, ClassComment
	}

	if d, ok := HexValue(c); ok {
		if s.HaveHigh {
			out = (s.Hold << 4) | d
			s.Hold = 0
			s.HaveHigh = false
			return s, out, true, ClassHexDigit
		}
		s.Hold = d
		s.HaveHigh = true
		return s, 0, false, ClassHexDigit
	}

	if IsCommentMarker(c) {
		s.InComment = true
		return s, 0, false, ClassComment
	}

	return s, 0, false, ClassIgnored
}

// Stats counts what a decode observed.
type Stats struct {
	Steps         uint64
	HexDigits     uint64
	CommentBytes  uint64
	IgnoredBytes  uint64
	Emitted       uint64
	DroppedNibble bool
}

// Decoder is a streaming hex0 decoder. The zero value is ready to use.
//
// Writes never fail: bytes that are neither hex digits nor comment markers
// are skipped, and an unpaired trailing digit is simply never emitted.
type Decoder struct {
	state State
	out   []byte
	stats Stats
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes a single byte and reports the byte it emitted, if any.
func (d *Decoder) Feed(c byte) (byte, bool) {
	next, out, emitted, class := Step(d.state, c)
	d.state = next
	d.stats.Steps++
	switch class {
	case ClassHexDigit:
		d.stats.HexDigits++
	case ClassComment:
		d.stats.CommentBytes++
	default:
		d.stats.IgnoredBytes++
	}
	if emitted {
		d.out = append(d.out, out)
		d.stats.Emitted++
	}
	return out, emitted
}

// Write implements io.Writer. It always consumes all of p.
func (d *Decoder) Write(p []byte) (int, error) {
	for _, c := range p {
		d.Feed(c)
	}
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (d *Decoder) WriteByte(c byte) error {
	d.Feed(c)
	return nil
}

// State returns the current decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Len returns the number of bytes emitted so far.
func (d *Decoder) Len() int {
	return len(d.out)
}

// Bytes returns a copy of the output decoded so far. A pending high nibble is
// not part of it.
func (d *Decoder) Bytes() []byte {
	if d.out == nil {
		return []byte{}
	}
	return bytes.Clone(d.out)
}

// Stats returns the counters for everything written since the last Reset.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.DroppedNibble = d.state.HaveHigh
	return s
}

// Reset discards all state and output.
func (d *Decoder) Reset() {
	*d = Decoder{}
}

// Decode compiles hex0 source into the bytes it describes. It is total: any
// input, including none, yields an output.
func Decode(src []byte) []byte {
	out, _ := DecodeWithStats(src)
	return out
}

// DecodeWithStats is Decode that also returns the decode counters.
func DecodeWithStats(src []byte) ([]byte, Stats) {
	d := Decoder{out: make([]byte, 0, len(src)/2)}
	d.Write(src)
	return d.out, d.Stats()
}

// DecodeReader decodes everything r yields. The only possible error is r's.
func DecodeReader(r io.Reader) ([]byte, error) {
	d := NewDecoder()
	if _, err := io.Copy(d, r); err != nil {
		return nil, err
	}
	return d.Bytes(), nil
}
