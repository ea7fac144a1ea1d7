package eth

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func removeWhitespace(s string) string {
	// Split the string on whitespace then concatenate the segments
	return strings.Join(strings.Fields(s), "")
}

var ReferenceBlock = Block{
	BlockHash:   "blockhash1",
	BaseFee:     "basefee1",
	BlockNumber: 1,
	Timestamp:   12,
	Events:      []Event{{Data: hexutil.Bytes{0x01, 0x02}}},
	Txs:         []Transaction{{Data: hexutil.Bytes{0xab}}},
}

var ReferenceSequencerBlock = SequencerBlock{
	Block:       ReferenceBlock,
	TargetEpoch: 3,
}

func TestBlockJson(t *testing.T) {
	data := []byte(removeWhitespace(`{
		"block_hash": "blockhash1",
		"base_fee": "basefee1",
		"block_number": 1,
		"timestamp": 12,
		"events": [{"data": "0x0102"}],
		"txs": [{"data": "0xab"}]
	}`))

	encoded, err := json.Marshal(ReferenceBlock)
	require.NoError(t, err)
	require.Equal(t, string(data), string(encoded))

	var decoded Block
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, ReferenceBlock.Equal(&decoded))
}

func TestSequencerBlockJson(t *testing.T) {
	data := []byte(removeWhitespace(`{
		"block_hash": "blockhash1",
		"base_fee": "basefee1",
		"block_number": 1,
		"timestamp": 12,
		"events": [{"data": "0x0102"}],
		"txs": [{"data": "0xab"}],
		"target_epoch": 3
	}`))

	encoded, err := json.Marshal(ReferenceSequencerBlock)
	require.NoError(t, err)
	require.Equal(t, string(data), string(encoded))

	var decoded SequencerBlock
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, ReferenceSequencerBlock.Equal(&decoded))
}

func TestBlockEqual(t *testing.T) {
	a := ReferenceBlock
	b := ReferenceBlock
	require.True(t, a.Equal(&b))

	// nil and empty lists are the same
	a.Events, b.Events = nil, []Event{}
	require.True(t, a.Equal(&b))

	b.Timestamp++
	require.False(t, a.Equal(&b))

	var nilBlock *Block
	require.True(t, nilBlock.Equal(nil))
	require.False(t, nilBlock.Equal(&a))
	require.False(t, a.Equal(nil))

	c := ReferenceBlock
	c.Txs = []Transaction{{Data: hexutil.Bytes{0xac}}}
	require.False(t, ReferenceBlock.Equal(&c))
}

func TestSequencerBlockEqual(t *testing.T) {
	a := ReferenceSequencerBlock
	b := ReferenceSequencerBlock
	require.True(t, a.Equal(&b))
	b.TargetEpoch = 4
	require.False(t, a.Equal(&b), "target epoch is part of the identity")

	require.True(t, SequencerBatch{a}.Equal(SequencerBatch{a}))
	require.False(t, SequencerBatch{a, b}.Equal(SequencerBatch{b, a}), "order is significant")
	require.False(t, SequencerBatch{a}.Equal(nil))
	require.True(t, SequencerBatch(nil).Equal(SequencerBatch{}))
	require.Equal(t, []uint64{3, 4}, SequencerBatch{a, b}.TargetEpochs())
}

func TestBlocksEqual(t *testing.T) {
	a, b := ReferenceBlock, ReferenceBlock
	require.True(t, BlocksEqual([]*Block{&a}, []*Block{&b}))
	require.False(t, BlocksEqual([]*Block{&a}, nil))
	require.True(t, BlocksEqual(nil, []*Block{}))
}

func TestBlockID(t *testing.T) {
	block := ReferenceBlock
	block.BlockHash = "0x0123456789abcdef0123456789abcdef"
	id := block.ID()
	require.Equal(t, "0x0123456789abcdef0123456789abcdef:1", id.String())
	require.Equal(t, "0x0123..abcdef:1", id.TerminalString())
	require.Equal(t, "blockhash1:1", ReferenceBlock.ID().TerminalString())
}
