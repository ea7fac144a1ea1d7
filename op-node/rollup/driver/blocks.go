package driver

import (
	"fmt"
	"math/rand"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// l1Block returns the generated L1 block numbered i. Its first event carries a deposit and its
// first transaction is the slot a sequencer batch is written into.
func l1Block(i uint64) *eth.Block {
	return &eth.Block{
		BlockHash:   fmt.Sprintf("l1blockhash%d", i),
		BaseFee:     fmt.Sprintf("l1basefee%d", i),
		BlockNumber: i,
		Timestamp:   i,
		Events: []eth.Event{
			{Data: hexutil.Bytes(fmt.Sprintf("deposit %d", i))},
			{Data: hexutil.Bytes(fmt.Sprintf("l1 event %d", i))},
		},
		Txs: []eth.Transaction{
			{Data: hexutil.Bytes(fmt.Sprintf("l1 tx %d", i))},
		},
	}
}

func randomData(rng *rand.Rand, size int) hexutil.Bytes {
	out := make([]byte, size)
	rng.Read(out)
	return out
}

// randomL2Block returns an L2 block with random contents and the given number.
func randomL2Block(rng *rand.Rand, number uint64) *eth.Block {
	events := make([]eth.Event, rng.Intn(4))
	for i := range events {
		events[i] = eth.Event{Data: randomData(rng, 1+rng.Intn(64))}
	}
	txs := make([]eth.Transaction, 1+rng.Intn(3))
	for i := range txs {
		txs[i] = eth.Transaction{Data: randomData(rng, 1+rng.Intn(64))}
	}
	return &eth.Block{
		BlockHash:   hexutil.Encode(randomData(rng, 32)),
		BaseFee:     fmt.Sprintf("%d", rng.Uint32()),
		BlockNumber: number,
		Timestamp:   number*12 + uint64(rng.Intn(12)),
		Events:      events,
		Txs:         txs,
	}
}
