package core

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// bytesPerElement keeps every packed chunk below the Goldilocks modulus.
const bytesPerElement = 7

// BytesToElements packs arbitrary bytes into field elements, 7 bytes per
// element, prefixed by the byte length so that different inputs never pack
// to the same sequence.
func BytesToElements(data []byte) []field.Element {
	elems := make([]field.Element, 0, 1+(len(data)+bytesPerElement-1)/bytesPerElement)
	elems = append(elems, field.New(uint64(len(data))))
	for i := 0; i < len(data); i += bytesPerElement {
		end := i + bytesPerElement
		if end > len(data) {
			end = len(data)
		}
		var val uint64
		for j, b := range data[i:end] {
			val |= uint64(b) << (j * 8)
		}
		elems = append(elems, field.New(val))
	}
	return elems
}

// HashBytes computes the Tip5 digest of arbitrary bytes.
func HashBytes(data []byte) hash.Digest {
	return hash.HashVarlen(BytesToElements(data))
}

// HashElements computes the Tip5 digest of a row of field elements.
func HashElements(elems []field.Element) hash.Digest {
	return hash.HashVarlen(elems)
}

// HashPair hashes two digests into their Merkle parent.
func HashPair(left, right hash.Digest) hash.Digest {
	var input [10]field.Element
	copy(input[:hash.DigestLen], left[:])
	copy(input[hash.DigestLen:], right[:])
	return hash.Hash10(input)
}

// DigestsEqual compares two Tip5 digests element by element.
func DigestsEqual(a, b hash.Digest) bool {
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// DigestToBytes encodes a Tip5 digest as little-endian 8-byte words.
func DigestToBytes(d hash.Digest) []byte {
	result := make([]byte, len(d)*8)
	for i, elem := range d {
		binary.LittleEndian.PutUint64(result[i*8:], elem.Value())
	}
	return result
}

// DigestToWords returns the canonical values of the digest's elements.
func DigestToWords(d hash.Digest) []uint64 {
	words := make([]uint64, len(d))
	for i, elem := range d {
		words[i] = elem.Value()
	}
	return words
}

// DigestFromWords is the inverse of DigestToWords. Every word must be a
// canonical field value.
func DigestFromWords(words []uint64) (hash.Digest, error) {
	var d hash.Digest
	if len(words) != len(d) {
		return d, fmt.Errorf("digest has %d words, want %d", len(words), len(d))
	}
	for i, w := range words {
		if w >= field.P {
			return d, fmt.Errorf("digest word %d is not a canonical field element", i)
		}
		d[i] = field.New(w)
	}
	return d, nil
}
