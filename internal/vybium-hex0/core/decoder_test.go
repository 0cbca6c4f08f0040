package core

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"
)

// TestDecode tests the decoding rules on small sources
func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"empty input", "", []byte{}},
		{"single pair", "41", []byte{0x41}},
		{"comment skip", "41#ignored\n42", []byte{0x41, 0x42}},
		{"semicolon comment", "41;ignored\n42", []byte{0x41, 0x42}},
		{"comment to end of input", "41;trailing comment with no newline", []byte{0x41}},
		{"whitespace insensitivity", "41 42\n43", []byte{0x41, 0x42, 0x43}},
		{"lowercase", "af", []byte{0xaf}},
		{"uppercase", "AF", []byte{0xaf}},
		{"mixed case high", "Af", []byte{0xaf}},
		{"mixed case low", "aF", []byte{0xaf}},
		{"odd trailing digit dropped", "414", []byte{0x41}},
		{"lone digit", "7", []byte{}},
		{"non-hex letters ignored", "4g1z", []byte{0x41}},
		{"pair split by separators", "4 \t\r\n,1", []byte{0x41}},
		{"pair split by comment", "4# x\n1", []byte{0x41}},
		{"comment hides hex digits", "# 4142\n43", []byte{0x43}},
		{"marker inside comment", "# a ; b # c\n44", []byte{0x44}},
		{"newline only ends comment", "#\r4142\n43", []byte{0x43}},
		{"empty comment line", "#\n#\n00", []byte{0x00}},
		{"high bytes", "ff80\x80\xff7f", []byte{0xff, 0x80, 0x7f}},
		{"NUL bytes ignored", "1\x002", []byte{0x12}},
		{"hold reset after emit", "1234", []byte{0x12, 0x34}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.src))
			if got == nil {
				t.Fatal("Decode returned nil")
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Decode(%q) = %x, want %x", tt.src, got, tt.want)
			}
		})
	}
}

// TestDecodeDeterminism tests that decoding the same source twice yields identical output
func TestDecodeDeterminism(t *testing.T) {
	src := []byte("7f 45 4c 46 # magic\n02 01 ; class\nzz 0 1\n")
	first := Decode(src)
	for i := 0; i < 10; i++ {
		if got := Decode(src); !bytes.Equal(got, first) {
			t.Fatalf("run %d: Decode = %x, want %x", i, got, first)
		}
	}
}

// TestDecodeLength tests the length invariant on digit-only sources
func TestDecodeLength(t *testing.T) {
	const digits = "0123456789abcdefABCDEF"
	for n := 0; n <= 3*len(digits); n++ {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteByte(digits[i%len(digits)])
		}
		out := Decode([]byte(sb.String()))
		if len(out) != n/2 {
			t.Errorf("len(Decode(%d digits)) = %d, want %d", n, len(out), n/2)
		}
	}
}

// TestDecodeDoesNotModifySource tests that the source is left untouched
func TestDecodeDoesNotModifySource(t *testing.T) {
	src := []byte("41 # c\n42")
	orig := bytes.Clone(src)
	out := Decode(src)
	out[0] = 0
	if !bytes.Equal(src, orig) {
		t.Errorf("source modified: %q, want %q", src, orig)
	}
}

// TestHexValue tests hex digit classification over every byte value
func TestHexValue(t *testing.T) {
	for c := 0; c < 256; c++ {
		b := byte(c)
		v, ok := HexValue(b)
		var want byte
		var wantOK bool
		switch {
		case b >= '0' && b <= '9':
			want, wantOK = b-'0', true
		case b >= 'a' && b <= 'f':
			want, wantOK = b-'a'+10, true
		case b >= 'A' && b <= 'F':
			want, wantOK = b-'A'+10, true
		}
		if ok != wantOK || v != want {
			t.Errorf("HexValue(%#x) = (%d, %v), want (%d, %v)", b, v, ok, want, wantOK)
		}
	}
}

// TestStep tests single state transitions
func TestStep(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		c       byte
		next    State
		out     byte
		emitted bool
		class   ByteClass
	}{
		{"digit from reset", State{}, 'a', State{Hold: 0xa, HaveHigh: true}, 0, false, ClassHexDigit},
		{"digit completes pair", State{Hold: 0xa, HaveHigh: true}, 'B', State{}, 0xab, true, ClassHexDigit},
		{"separator keeps hold", State{Hold: 3, HaveHigh: true}, ' ', State{Hold: 3, HaveHigh: true}, 0, false, ClassIgnored},
		{"marker opens comment", State{}, '#', State{InComment: true}, 0, false, ClassComment},
		{"marker keeps hold", State{Hold: 3, HaveHigh: true}, ';', State{Hold: 3, HaveHigh: true, InComment: true}, 0, false, ClassComment},
		{"digit inside comment", State{InComment: true}, '4', State{InComment: true}, 0, false, ClassComment},
		{"newline closes comment", State{InComment: true}, '\n', State{}, 0, false, ClassIgnored},
		{"newline outside comment", State{}, '\n', State{}, 0, false, ClassIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, out, emitted, class := Step(tt.state, tt.c)
			if next != tt.next {
				t.Errorf("next = %+v, want %+v", next, tt.next)
			}
			if emitted != tt.emitted || out != tt.out {
				t.Errorf("emitted = (%#x, %v), want (%#x, %v)", out, emitted, tt.out, tt.emitted)
			}
			if class != tt.class {
				t.Errorf("class = %d, want %d", class, tt.class)
			}
		})
	}
}

// TestDecoderStreaming tests that any chunking of the source decodes like a single call
func TestDecoderStreaming(t *testing.T) {
	src := []byte("# header ; still header\n7f45 4c46 ; magic\n0 2\t0 1 # split pair\nDE AD be ef\n;tail 41")
	want := Decode(src)

	for size := 1; size <= len(src); size++ {
		d := NewDecoder()
		for i := 0; i < len(src); i += size {
			end := i + size
			if end > len(src) {
				end = len(src)
			}
			n, err := d.Write(src[i:end])
			if err != nil || n != end-i {
				t.Fatalf("chunk size %d: Write = (%d, %v)", size, n, err)
			}
		}
		if got := d.Bytes(); !bytes.Equal(got, want) {
			t.Errorf("chunk size %d: Bytes = %x, want %x", size, got, want)
		}
	}
}

// TestDecoderStats tests the decode counters
func TestDecoderStats(t *testing.T) {
	out, stats := DecodeWithStats([]byte("41 #c\n4"))
	if !bytes.Equal(out, []byte{0x41}) {
		t.Fatalf("output = %x, want 41", out)
	}

	want := Stats{
		Steps:         7,
		HexDigits:     3,
		CommentBytes:  2,
		IgnoredBytes:  2,
		Emitted:       1,
		DroppedNibble: true,
	}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if stats.HexDigits+stats.CommentBytes+stats.IgnoredBytes != stats.Steps {
		t.Error("byte classes do not add up to the step count")
	}
}

// TestDecoderReset tests that Reset discards output and pending state
func TestDecoderReset(t *testing.T) {
	d := NewDecoder()
	d.Write([]byte("414"))
	if d.Len() != 1 || !d.State().HaveHigh {
		t.Fatalf("Len = %d, State = %+v before reset", d.Len(), d.State())
	}

	d.Reset()
	if d.Len() != 0 || d.State() != (State{}) || d.Stats() != (Stats{}) {
		t.Fatalf("decoder not reset: Len = %d, State = %+v", d.Len(), d.State())
	}

	d.WriteByte('2')
	d.WriteByte('3')
	if got := d.Bytes(); !bytes.Equal(got, []byte{0x23}) {
		t.Errorf("Bytes after reset = %x, want 23", got)
	}
}

// TestDecoderBytesIsCopy tests that callers cannot alias decoder output
func TestDecoderBytesIsCopy(t *testing.T) {
	d := NewDecoder()
	if got := d.Bytes(); got == nil || len(got) != 0 {
		t.Fatalf("Bytes on empty decoder = %v", got)
	}
	d.Write([]byte("41"))
	b := d.Bytes()
	b[0] = 0
	if got := d.Bytes(); got[0] != 0x41 {
		t.Errorf("decoder output changed through Bytes: %x", got)
	}
}

// TestDecodeReader tests decoding from an io.Reader
func TestDecodeReader(t *testing.T) {
	src := "48 65 6c # c\n6c 6f"
	got, err := DecodeReader(iotest.OneByteReader(strings.NewReader(src)))
	if err != nil {
		t.Fatalf("DecodeReader failed: %v", err)
	}
	if string(got) != "Hello" {
		t.Errorf("DecodeReader = %q, want %q", got, "Hello")
	}

	_, err = DecodeReader(iotest.ErrReader(iotest.ErrTimeout))
	if err != iotest.ErrTimeout {
		t.Errorf("DecodeReader error = %v, want %v", err, iotest.ErrTimeout)
	}
}
