package derive

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

type BatchValidity uint8

const (
	// BatchDrop indicates that the sequencer block targets an epoch that is already behind the scan
	BatchDrop BatchValidity = iota
	// BatchAccept indicates that the sequencer block belongs to the epoch being derived
	BatchAccept
	// BatchFuture indicates that the sequencer block belongs to a later epoch
	BatchFuture
)

func (v BatchValidity) String() string {
	switch v {
	case BatchDrop:
		return "drop"
	case BatchAccept:
		return "accept"
	case BatchFuture:
		return "future"
	default:
		return "unknown"
	}
}

// Watermark tracks the highest target epoch seen during one scan of a sequencer window.
// It starts below every valid epoch: L1 block numbers start at 1.
type Watermark uint64

// Advance raises the watermark to the target epoch of the block, if it is higher.
func (w *Watermark) Advance(targetEpoch uint64) {
	if targetEpoch > uint64(*w) {
		*w = Watermark(targetEpoch)
	}
}

// CheckSequencerBlock advances the watermark with the block and reports whether the block
// belongs to the given epoch.
//
// The watermark is never lowered: once a block targeting a later epoch has been seen, blocks
// targeting the current epoch are dropped for the rest of the scan, even when their target
// matches. This keeps a sequencer from regressing to an epoch it has already moved past.
func CheckSequencerBlock(log log.Logger, epoch uint64, w *Watermark, block *eth.SequencerBlock) BatchValidity {
	w.Advance(block.TargetEpoch)
	current := uint64(*w)
	switch {
	case current == epoch:
		return BatchAccept
	case block.TargetEpoch > epoch:
		log.Trace("sequencer block is for a future epoch", "target_epoch", block.TargetEpoch)
		return BatchFuture
	case block.TargetEpoch == epoch:
		log.Debug("dropping sequencer block that regresses behind the watermark",
			"target_epoch", block.TargetEpoch, "watermark", current)
		return BatchDrop
	default:
		log.Debug("dropping sequencer block for a past epoch",
			"target_epoch", block.TargetEpoch, "watermark", current)
		return BatchDrop
	}
}

// LogContext creates a new log context that contains information of the sequencer block.
func LogContext(log log.Logger, block *eth.SequencerBlock) log.Logger {
	return log.New(
		"seq_block", block.ID(),
		"target_epoch", block.TargetEpoch,
		"txs", len(block.Txs),
	)
}
