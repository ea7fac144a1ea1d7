package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestBlockCommitment(t *testing.T) {
	a := ReferenceBlock
	b := ReferenceBlock
	require.Equal(t, a.Commit(), b.Commit())

	b.BaseFee = "basefee2"
	require.NotEqual(t, a.Commit(), b.Commit())

	// moving bytes between adjacent fields changes the commitment
	c, d := ReferenceBlock, ReferenceBlock
	c.BlockHash, c.BaseFee = "ab", "c"
	d.BlockHash, d.BaseFee = "a", "bc"
	require.NotEqual(t, c.Commit(), d.Commit())

	e, f := ReferenceBlock, ReferenceBlock
	e.Events = []Event{{Data: hexutil.Bytes{1}}, {Data: hexutil.Bytes{2}}}
	f.Events = []Event{{Data: hexutil.Bytes{1, 2}}}
	require.NotEqual(t, e.Commit(), f.Commit())
}

func TestSequencerBlockCommitment(t *testing.T) {
	a := ReferenceSequencerBlock
	b := ReferenceSequencerBlock
	b.TargetEpoch++
	require.NotEqual(t, a.Commit(), b.Commit())
	require.NotEqual(t, a.Block.Commit(), a.Commit())
}

func TestChainCommitment(t *testing.T) {
	a, b := ReferenceBlock, ReferenceBlock
	b.BlockNumber = 2
	require.Equal(t, ChainCommitment([]*Block{&a, &b}), ChainCommitment([]*Block{&a, &b}))
	require.NotEqual(t, ChainCommitment([]*Block{&a, &b}), ChainCommitment([]*Block{&b, &a}))
	require.NotEqual(t, ChainCommitment([]*Block{&a}), ChainCommitment([]*Block{&a, &b}))
	require.Equal(t, ChainCommitment(nil), ChainCommitment([]*Block{}))

	comm := ChainCommitment(nil)
	require.True(t, comm.Equals(ChainCommitment(nil)))
	require.Len(t, comm.String(), 66)
	require.Len(t, comm.TerminalString(), 16)
}
