package derive

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// The simple rollup carries exactly one L2 block per L1 block, encoded in the first event:
//
//	PlainBlockVersion ++ RLP([block_hash, base_fee, block_number, timestamp, [[data], ...], [[data], ...]])
const PlainBlockVersion = 0x00

// EncodeBlock encodes an L2 block for the simple rollup.
func EncodeBlock(block *eth.Block) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(PlainBlockVersion)
	if err := rlp.Encode(&buf, block); err != nil {
		return nil, fmt.Errorf("failed to encode L2 block: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBlock decodes an L2 block encoded with EncodeBlock.
func DecodeBlock(data []byte) (*eth.Block, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedBlock)
	}
	if data[0] != PlainBlockVersion {
		return nil, fmt.Errorf("%w: unrecognized block version %d", ErrMalformedBlock, data[0])
	}
	if len(data)-1 > MaxBatchSize {
		return nil, fmt.Errorf("%w: payload size %d exceeds max %d", ErrMalformedBlock, len(data)-1, MaxBatchSize)
	}
	var block eth.Block
	if err := rlp.DecodeBytes(data[1:], &block); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBlock, err)
	}
	return &block, nil
}

// DeriveSimpleBlock extracts the L2 block carried by the first event of an L1 block. Unlike
// sequencer batches, every L1 block of the simple rollup must carry one.
func DeriveSimpleBlock(l1Block *eth.Block) (*eth.Block, error) {
	if l1Block == nil {
		return nil, fmt.Errorf("%w: nil L1 block", ErrMalformedBlock)
	}
	if len(l1Block.Events) == 0 {
		return nil, fmt.Errorf("%w: L1 block %s has no events", ErrMalformedBlock, l1Block.ID())
	}
	block, err := DecodeBlock(l1Block.Events[0].Data)
	if err != nil {
		return nil, fmt.Errorf("L1 block %s: %w", l1Block.ID(), err)
	}
	return block, nil
}

// DeriveSimpleChain derives one L2 block per L1 block. It is a stateless transformation, so any
// single L2 block can be recomputed from its L1 block alone.
func DeriveSimpleChain(log log.Logger, l1Chain []*eth.Block) ([]*eth.Block, error) {
	l2Chain := make([]*eth.Block, 0, len(l1Chain))
	for i, l1Block := range l1Chain {
		if l1Block == nil {
			return nil, &ChainIndexError{Index: i, Missing: true}
		}
		block, err := DeriveSimpleBlock(l1Block)
		if err != nil {
			return nil, fmt.Errorf("failed to derive L2 block at position %d: %w", i, err)
		}
		l2Chain = append(l2Chain, block)
	}
	log.Debug("derived simple L2 chain", "l2_blocks", len(l2Chain))
	return l2Chain, nil
}
