package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-hex0/internal/vybium-hex0/core"
	"github.com/vybium/vybium-hex0/internal/vybium-hex0/utils"
)

// newTranscript absorbs everything the prover commits to before any index is
// sampled. Prover and verifier must build it identically.
func newTranscript(params Params, claim *Claim, root hash.Digest, height uint64) *utils.Channel {
	ch := utils.NewChannel(params.HashFunction)
	ch.Send([]byte(params.HashFunction))
	ch.SendUint64(uint64(params.NumQueries))
	ch.Send(claim.Encode())
	ch.Send(core.DigestToBytes(root))
	ch.SendUint64(height)
	return ch
}

// sampleTransitions returns the step indices whose transitions are opened:
// the first and last step, then NumQueries sampled steps, without repeats and
// in first-seen order.
func sampleTransitions(ch *utils.Channel, steps uint64, numQueries int) ([]uint64, error) {
	if steps == 0 {
		return nil, nil
	}

	seen := make(map[uint64]bool, numQueries+2)
	indices := make([]uint64, 0, numQueries+2)
	add := func(i uint64) {
		if !seen[i] {
			seen[i] = true
			indices = append(indices, i)
		}
	}

	add(0)
	add(steps - 1)
	for q := 0; q < numQueries; q++ {
		i, err := ch.ReceiveIndex(steps)
		if err != nil {
			return nil, fmt.Errorf("sampling query %d: %w", q, err)
		}
		add(i)
	}
	return indices, nil
}

// paddedHeight is the Merkle leaf count for a trace of the given height.
func paddedHeight(height uint64) uint64 {
	return utils.NextPowerOfTwo(height)
}
