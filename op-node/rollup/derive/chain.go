package derive

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// ValidateChain checks that every L1 block number equals its position plus one, which the
// window arithmetic relies on.
func ValidateChain(l1Chain []*eth.Block) error {
	for i, b := range l1Chain {
		want := uint64(i) + 1
		if b == nil {
			return &ChainIndexError{Index: i, Expected: want, Missing: true}
		}
		if b.BlockNumber != want {
			return &ChainIndexError{Index: i, Expected: want, Got: b.BlockNumber}
		}
	}
	return nil
}

// FinalizedEpochs returns how many epochs of an L1 chain of the given length are final: an
// epoch is final once `timeout` L1 blocks follow its anchor.
func FinalizedEpochs(l1Len int, timeout uint64) int {
	if uint64(l1Len) <= timeout {
		return 0
	}
	return int(uint64(l1Len) - timeout)
}

// DeriveChain derives the finalized L2 chain from the given L1 chain. Epochs whose sequencer
// window has not fully elapsed are pending and not part of the output.
func DeriveChain(log log.Logger, l1Chain []*eth.Block, timeout uint64) ([]*eth.Block, error) {
	if err := ValidateChain(l1Chain); err != nil {
		return nil, err
	}
	var l2Chain []*eth.Block
	n := FinalizedEpochs(len(l1Chain), timeout)
	for i := 0; i < n; i++ {
		anchor := l1Chain[i]
		window := l1Chain[i+1 : i+1+int(timeout)]
		blocks, err := DeriveEpoch(log, anchor, window, timeout)
		if err != nil {
			return nil, err
		}
		l2Chain = append(l2Chain, blocks...)
	}
	log.Debug("derived L2 chain", "l1_blocks", len(l1Chain), "epochs", n, "l2_blocks", len(l2Chain))
	return l2Chain, nil
}
