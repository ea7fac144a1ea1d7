package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Event is an opaque log entry emitted by an L1 block. On L1, events carry user deposits.
type Event struct {
	Data hexutil.Bytes `json:"data"`
}

// Transaction is an opaque transaction payload. By convention the transaction at index 0 of an
// L1 block carries an encoded SequencerBatch.
type Transaction struct {
	Data hexutil.Bytes `json:"data"`
}

// Block is the block shape shared by the L1 and L2 chains.
// BlockHash and BaseFee are opaque provenance strings; no hashing or fee math is done on them.
type Block struct {
	BlockHash   string        `json:"block_hash"`
	BaseFee     string        `json:"base_fee"`
	BlockNumber uint64        `json:"block_number"`
	Timestamp   uint64        `json:"timestamp"`
	Events      []Event       `json:"events"`
	Txs         []Transaction `json:"txs"`
}

// BlockID identifies a block in log output.
type BlockID struct {
	Hash   string `json:"hash"`
	Number uint64 `json:"number"`
}

func (id BlockID) String() string {
	return fmt.Sprintf("%s:%d", id.Hash, id.Number)
}

// TerminalString implements log.TerminalStringer, formatting a string for console output
// during logging.
func (id BlockID) TerminalString() string {
	return fmt.Sprintf("%s:%d", abbreviate(id.Hash, 12), id.Number)
}

func (b *Block) ID() BlockID {
	return BlockID{Hash: b.BlockHash, Number: b.BlockNumber}
}

func (b *Block) String() string {
	return fmt.Sprintf("%s (time %d, %d events, %d txs)", b.ID(), b.Timestamp, len(b.Events), len(b.Txs))
}

// Equal reports whether both blocks are structurally equal. Nil and empty event or transaction
// lists compare equal.
func (b *Block) Equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	return cmp.Equal(*b, *o, cmpopts.EquateEmpty())
}

// SequencerBlock is a privileged L2 block produced by the sequencer, tagged with the L1 block
// number of the epoch it wants to be included in.
type SequencerBlock struct {
	Block
	TargetEpoch uint64 `json:"target_epoch"`
}

// Equal reports whether both sequencer blocks are structurally equal, TargetEpoch included.
func (b *SequencerBlock) Equal(o *SequencerBlock) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.TargetEpoch == o.TargetEpoch && b.Block.Equal(&o.Block)
}

func (b *SequencerBlock) String() string {
	return fmt.Sprintf("%s target %d", b.Block.String(), b.TargetEpoch)
}

// SequencerBatch holds all sequencer blocks carried by one L1 transaction. Order is significant.
type SequencerBatch []SequencerBlock

// Equal reports whether both batches hold structurally equal blocks in the same order.
func (b SequencerBatch) Equal(o SequencerBatch) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if !b[i].Equal(&o[i]) {
			return false
		}
	}
	return true
}

// TargetEpochs lists the target epoch of every block in batch order.
func (b SequencerBatch) TargetEpochs() []uint64 {
	out := make([]uint64, len(b))
	for i := range b {
		out[i] = b[i].TargetEpoch
	}
	return out
}

// BlocksEqual reports whether two chains hold structurally equal blocks in the same order.
func BlocksEqual(a, b []*Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n/2] + ".." + s[len(s)-n/2:]
}
