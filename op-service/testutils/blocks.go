package testutils

import (
	"fmt"
	"math/rand"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

const DepositData = "I am a deposit!"

// DummyBlock returns a fixture L1 block numbered i with two events and one transaction.
func DummyBlock(i uint64) *eth.Block {
	return &eth.Block{
		BlockHash:   fmt.Sprintf("blockhash%d", i),
		BaseFee:     fmt.Sprintf("basefee%d", i),
		BlockNumber: i,
		Timestamp:   i,
		Events: []eth.Event{
			{Data: hexutil.Bytes("event 1 data")},
			{Data: hexutil.Bytes("event 2 data")},
		},
		Txs: []eth.Transaction{
			{Data: hexutil.Bytes("tx 1 data")},
		},
	}
}

// DummyBlockWithDeposit is DummyBlock with a deposit in its first event.
func DummyBlockWithDeposit(i uint64) *eth.Block {
	b := DummyBlock(i)
	b.Events[0].Data = hexutil.Bytes(DepositData)
	return b
}

// DummySequencerBlock returns a fixture sequencer block targeting the given epoch.
func DummySequencerBlock(targetEpoch uint64) eth.SequencerBlock {
	return eth.SequencerBlock{
		Block: eth.Block{
			BlockHash:   fmt.Sprintf("blockhash%d", targetEpoch),
			BaseFee:     fmt.Sprintf("basefee%d", targetEpoch),
			BlockNumber: targetEpoch,
			Timestamp:   targetEpoch,
			Events: []eth.Event{
				{Data: hexutil.Bytes("seq event 1 data")},
				{Data: hexutil.Bytes("seq event 2 data")},
			},
			Txs: []eth.Transaction{
				{Data: hexutil.Bytes("seq tx 1 data")},
			},
		},
		TargetEpoch: targetEpoch,
	}
}

// DummyL1Chain returns n deposit-carrying dummy blocks numbered 1..n.
func DummyL1Chain(n int) []*eth.Block {
	chain := make([]*eth.Block, n)
	for i := range chain {
		chain[i] = DummyBlockWithDeposit(uint64(i) + 1)
	}
	return chain
}

func RandomData(rng *rand.Rand, size int) hexutil.Bytes {
	out := make([]byte, size)
	rng.Read(out)
	return out
}

func RandomHash(rng *rand.Rand) string {
	return hexutil.Encode(RandomData(rng, 32))
}

// RandomBlock returns a block with random contents and the given number.
func RandomBlock(rng *rand.Rand, number uint64) *eth.Block {
	events := make([]eth.Event, rng.Intn(4))
	for i := range events {
		events[i] = eth.Event{Data: RandomData(rng, 1+rng.Intn(64))}
	}
	txs := make([]eth.Transaction, 1+rng.Intn(3))
	for i := range txs {
		txs[i] = eth.Transaction{Data: RandomData(rng, 1+rng.Intn(64))}
	}
	return &eth.Block{
		BlockHash:   RandomHash(rng),
		BaseFee:     fmt.Sprintf("%d", rng.Uint32()),
		BlockNumber: number,
		Timestamp:   number*12 + uint64(rng.Intn(12)),
		Events:      events,
		Txs:         txs,
	}
}

// RandomSequencerBatch returns a batch of n random sequencer blocks, each targeting an epoch
// drawn from [minEpoch, maxEpoch].
func RandomSequencerBatch(rng *rand.Rand, n int, minEpoch, maxEpoch uint64) eth.SequencerBatch {
	batch := make(eth.SequencerBatch, n)
	for i := range batch {
		target := minEpoch
		if maxEpoch > minEpoch {
			target += uint64(rng.Int63n(int64(maxEpoch - minEpoch + 1)))
		}
		batch[i] = eth.SequencerBlock{
			Block:       *RandomBlock(rng, target),
			TargetEpoch: target,
		}
	}
	return batch
}
