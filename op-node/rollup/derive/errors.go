package derive

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBatch is the cause recorded when a transaction payload does not decode to a
	// sequencer batch. Derivation treats it as "no batch here" and never surfaces it.
	ErrMalformedBatch = errors.New("malformed sequencer batch")
	// ErrIncompleteWindow is returned when an epoch is derived without a complete sequencer window.
	ErrIncompleteWindow = errors.New("incomplete sequencer window")
	// ErrInvalidChainIndexing is returned when an L1 block number does not match its position.
	ErrInvalidChainIndexing = errors.New("invalid L1 chain indexing")
	// ErrNonSequentialBlock is returned when a block does not extend the tracked L1 chain.
	ErrNonSequentialBlock = errors.New("non-sequential L1 block")
	// ErrMalformedBlock is returned by the simple rollup when an L1 block carries no valid L2 block.
	ErrMalformedBlock = errors.New("malformed L2 block")
)

// WindowError describes a sequencer window that does not satisfy the epoch precondition.
type WindowError struct {
	Epoch    uint64
	Expected uint64
	Got      uint64
	// Gap is set when the window has the right length but is not the contiguous run of L1
	// blocks following the anchor. GapAt is the offending position and GapNumber its number.
	Gap       bool
	GapAt     int
	GapNumber uint64

	// MissingAnchor is set when no anchor block was given.
	MissingAnchor bool
}

func (e *WindowError) Error() string {
	if e.MissingAnchor {
		return fmt.Sprintf("%v: nil anchor block", ErrIncompleteWindow)
	}
	if e.Gap {
		return fmt.Sprintf("%v: epoch %d window position %d has block %d, expected %d",
			ErrIncompleteWindow, e.Epoch, e.GapAt, e.GapNumber, e.Epoch+1+uint64(e.GapAt))
	}
	return fmt.Sprintf("%v: epoch %d needs %d subsequent L1 blocks, got %d",
		ErrIncompleteWindow, e.Epoch, e.Expected, e.Got)
}

func (e *WindowError) Unwrap() error {
	return ErrIncompleteWindow
}

// ChainIndexError describes an L1 block whose number does not equal its position plus one.
type ChainIndexError struct {
	Index    int
	Expected uint64
	Got      uint64
	Missing  bool
}

func (e *ChainIndexError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%v: nil block at position %d", ErrInvalidChainIndexing, e.Index)
	}
	return fmt.Sprintf("%v: block at position %d has number %d, expected %d",
		ErrInvalidChainIndexing, e.Index, e.Got, e.Expected)
}

func (e *ChainIndexError) Unwrap() error {
	return ErrInvalidChainIndexing
}
