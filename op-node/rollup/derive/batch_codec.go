package derive

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// Batch format
//
// +----------+----------------------------------------------+
// | Bytes    | Field                                        |
// +----------+----------------------------------------------+
// | 1        | Version                                      |
// | variable | Payload                                      |
// +----------+----------------------------------------------+
//
// PlainBatchVersion:      payload = RLP([seqBlock, ...])
// CompressedBatchVersion: payload = snappy(RLP([seqBlock, ...]))
//
// seqBlock = [[block_hash, base_fee, block_number, timestamp, [[data], ...], [[data], ...]], target_epoch]
const (
	PlainBatchVersion      = 0x00
	CompressedBatchVersion = 0x01
)

// MaxBatchSize bounds the decoded size of a batch payload. Anything larger is not a batch.
const MaxBatchSize = 10_000_000

// EncodeBatch encodes the batch with the plain RLP version.
func EncodeBatch(batch eth.SequencerBatch) ([]byte, error) {
	return encodeBatch(batch, PlainBatchVersion)
}

// EncodeBatchCompressed encodes the batch with snappy-compressed RLP.
func EncodeBatchCompressed(batch eth.SequencerBatch) ([]byte, error) {
	return encodeBatch(batch, CompressedBatchVersion)
}

func encodeBatch(batch eth.SequencerBatch, version byte) ([]byte, error) {
	if batch == nil {
		batch = eth.SequencerBatch{}
	}
	payload, err := rlp.EncodeToBytes(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sequencer batch: %w", err)
	}
	if len(payload) > MaxBatchSize {
		return nil, fmt.Errorf("sequencer batch of %d bytes exceeds max size %d", len(payload), MaxBatchSize)
	}
	var buf bytes.Buffer
	buf.WriteByte(version)
	switch version {
	case PlainBatchVersion:
		buf.Write(payload)
	case CompressedBatchVersion:
		buf.Write(snappy.Encode(nil, payload))
	default:
		return nil, fmt.Errorf("unknown batch version %d", version)
	}
	return buf.Bytes(), nil
}

// DecodeBatch decodes a transaction payload into a sequencer batch. It is total: any input that
// is not a well-formed batch, including an empty payload, yields false.
func DecodeBatch(data []byte) (eth.SequencerBatch, bool) {
	batch, err := DecodeBatchErr(data)
	if err != nil {
		return nil, false
	}
	return batch, true
}

// DecodeBatchErr is DecodeBatch with the decoding failure exposed for logging. Every returned
// error wraps ErrMalformedBatch.
func DecodeBatchErr(data []byte) (eth.SequencerBatch, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedBatch)
	}
	payload := data[1:]
	switch data[0] {
	case PlainBatchVersion:
	case CompressedBatchVersion:
		n, err := snappy.DecodedLen(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedBatch, err)
		}
		if n > MaxBatchSize {
			return nil, fmt.Errorf("%w: decompressed size %d exceeds max %d", ErrMalformedBatch, n, MaxBatchSize)
		}
		payload, err = snappy.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedBatch, err)
		}
	default:
		return nil, fmt.Errorf("%w: unrecognized batch version %d", ErrMalformedBatch, data[0])
	}
	if len(payload) > MaxBatchSize {
		return nil, fmt.Errorf("%w: payload size %d exceeds max %d", ErrMalformedBatch, len(payload), MaxBatchSize)
	}
	var batch eth.SequencerBatch
	if err := rlp.DecodeBytes(payload, &batch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBatch, err)
	}
	return batch, nil
}

// ExtractBatch reads the sequencer batch carried by the first transaction of an L1 block.
func ExtractBatch(l1Block *eth.Block) (eth.SequencerBatch, bool) {
	batch, err := extractBatch(l1Block)
	return batch, err == nil
}

func extractBatch(l1Block *eth.Block) (eth.SequencerBatch, error) {
	if l1Block == nil || len(l1Block.Txs) == 0 {
		return nil, errNoBatchTx
	}
	return DecodeBatchErr(l1Block.Txs[0].Data)
}

var errNoBatchTx = fmt.Errorf("%w: block has no transactions", ErrMalformedBatch)

// isNoBatchTx distinguishes blocks without a batch transaction from undecodable payloads.
func isNoBatchTx(err error) bool {
	return errors.Is(err, errNoBatchTx)
}
