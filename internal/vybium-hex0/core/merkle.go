package core

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// MerkleTree commits to a power-of-two number of Tip5 leaf digests.
type MerkleTree struct {
	levels [][]hash.Digest
}

// NewMerkleTree builds a tree over the given leaves. Callers pad the leaves
// to a power of two.
func NewMerkleTree(leaves []hash.Digest) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("cannot create Merkle tree with no leaves")
	}
	if len(leaves)&(len(leaves)-1) != 0 {
		return nil, fmt.Errorf("leaf count %d is not a power of two", len(leaves))
	}

	current := make([]hash.Digest, len(leaves))
	copy(current, leaves)
	levels := [][]hash.Digest{current}

	for len(current) > 1 {
		next := make([]hash.Digest, len(current)/2)
		for i := range next {
			next[i] = HashPair(current[2*i], current[2*i+1])
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{levels: levels}, nil
}

// Root returns the Merkle root.
func (mt *MerkleTree) Root() hash.Digest {
	return mt.levels[len(mt.levels)-1][0]
}

// NumLeaves returns the padded leaf count.
func (mt *MerkleTree) NumLeaves() int {
	return len(mt.levels[0])
}

// Height returns the length of every authentication path.
func (mt *MerkleTree) Height() int {
	return len(mt.levels) - 1
}

// AuthPath returns the sibling digests from the leaf level up to, but not
// including, the root.
func (mt *MerkleTree) AuthPath(index int) ([]hash.Digest, error) {
	if index < 0 || index >= mt.NumLeaves() {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, mt.NumLeaves())
	}

	path := make([]hash.Digest, 0, mt.Height())
	for level := 0; level < mt.Height(); level++ {
		path = append(path, mt.levels[level][index^1])
		index /= 2
	}
	return path, nil
}

// VerifyAuthPath checks that leaf sits at index under root. The side of each
// sibling follows from the index bits.
func VerifyAuthPath(root hash.Digest, leaf hash.Digest, index int, path []hash.Digest) bool {
	if index < 0 || index >= 1<<len(path) {
		return false
	}
	current := leaf
	for _, sibling := range path {
		if index%2 == 0 {
			current = HashPair(current, sibling)
		} else {
			current = HashPair(sibling, current)
		}
		index /= 2
	}
	return DigestsEqual(current, root)
}
