package derive

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// CheckWindow verifies that window is the sequencer window of the epoch anchored at anchor: the
// contiguous run of L1 blocks following the anchor. A full window holds `timeout` blocks. An
// early anchor may instead come with a window of min(timeout, anchor-1) blocks.
func CheckWindow(anchor *eth.Block, window []*eth.Block, timeout uint64) error {
	if anchor == nil {
		return &WindowError{Expected: timeout, Got: uint64(len(window)), MissingAnchor: true}
	}
	got := uint64(len(window))
	if got != timeout && got != shortWindow(anchor.BlockNumber, timeout) {
		return &WindowError{Epoch: anchor.BlockNumber, Expected: timeout, Got: got}
	}
	for i, b := range window {
		want := anchor.BlockNumber + 1 + uint64(i)
		if b == nil || b.BlockNumber != want {
			var num uint64
			if b != nil {
				num = b.BlockNumber
			}
			return &WindowError{Epoch: anchor.BlockNumber, Expected: timeout, Got: got,
				Gap: true, GapAt: i, GapNumber: num}
		}
	}
	return nil
}

// shortWindow is the window length accepted for an anchor with fewer than `timeout` L1 blocks
// before it.
func shortWindow(anchor uint64, timeout uint64) uint64 {
	if anchor == 0 {
		return 0
	}
	return min(timeout, anchor-1)
}

// DeriveEpoch derives the L2 blocks of the epoch anchored at the given L1 block. The window holds
// the L1 blocks that follow the anchor (see CheckWindow); the sequencer may submit blocks for this
// epoch in any of them.
//
// The deposit block always comes first. Sequencer blocks follow in scan order: by L1 block, then
// by position within the batch. See CheckSequencerBlock for the filtering rule.
func DeriveEpoch(log log.Logger, anchor *eth.Block, window []*eth.Block, timeout uint64) ([]*eth.Block, error) {
	if err := CheckWindow(anchor, window, timeout); err != nil {
		return nil, err
	}
	return deriveEpoch(log, anchor, window, extractBatch), nil
}

type batchSource func(l1Block *eth.Block) (eth.SequencerBatch, error)

func deriveEpoch(log log.Logger, anchor *eth.Block, window []*eth.Block, batches batchSource) []*eth.Block {
	epoch := anchor.BlockNumber
	log = log.New("epoch", epoch)

	out := []*eth.Block{DeriveDepositBlock(anchor)}
	var w Watermark
	for _, l1Block := range window {
		batch, err := batches(l1Block)
		if err != nil {
			if !isNoBatchTx(err) {
				log.Debug("ignoring L1 block without a valid sequencer batch", "l1_block", l1Block.ID(), "err", err)
			}
			continue
		}
		for i := range batch {
			seqBlock := &batch[i]
			if CheckSequencerBlock(LogContext(log, seqBlock), epoch, &w, seqBlock) == BatchAccept {
				out = append(out, &seqBlock.Block)
			}
		}
	}
	log.Trace("derived epoch", "l2_blocks", len(out), "watermark", uint64(w))
	return out
}
