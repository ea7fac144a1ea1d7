package driver

import (
	"fmt"
	"math/rand"

	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/derive"
	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// BuildSimpleL1Chain produces an L1 chain of n blocks for the simple rollup, each carrying a random
// L2 block in its first event. It also returns the embedded L2 chain.
func BuildSimpleL1Chain(n int, seed int64) (l1 []*eth.Block, l2 []*eth.Block, err error) {
	rng := rand.New(rand.NewSource(seed))
	l1 = make([]*eth.Block, 0, n)
	l2 = make([]*eth.Block, 0, n)
	for i := 1; i <= n; i++ {
		l2Block := randomL2Block(rng, uint64(i))
		data, err := derive.EncodeBlock(l2Block)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to embed L2 block %d: %w", i, err)
		}
		carrier := l1Block(uint64(i))
		carrier.Events[0].Data = data
		l1 = append(l1, carrier)
		l2 = append(l2, l2Block)
	}
	return l1, l2, nil
}
