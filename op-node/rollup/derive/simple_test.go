package derive

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
	"github.com/ethereum-optimism/optimistic-specs/op-service/testlog"
	"github.com/ethereum-optimism/optimistic-specs/op-service/testutils"
)

func simpleL1Chain(t *testing.T, l2 []*eth.Block) []*eth.Block {
	l1 := make([]*eth.Block, len(l2))
	for i, b := range l2 {
		data, err := EncodeBlock(b)
		require.NoError(t, err)
		l1[i] = testutils.DummyBlock(uint64(i) + 1)
		l1[i].Events[0].Data = data
	}
	return l1
}

func TestDeriveSimpleChain(t *testing.T) {
	logger := testlog.Logger(t, log.LevelDebug)
	rng := rand.New(rand.NewSource(1234))
	l2 := make([]*eth.Block, 10)
	for i := range l2 {
		l2[i] = testutils.RandomBlock(rng, uint64(i)+100)
	}
	out, err := DeriveSimpleChain(logger, simpleL1Chain(t, l2))
	require.NoError(t, err)
	require.True(t, eth.BlocksEqual(l2, out))

	out, err = DeriveSimpleChain(logger, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestDeriveSimpleChainMalformed(t *testing.T) {
	logger := testlog.Logger(t, log.LevelDebug)
	l1 := simpleL1Chain(t, []*eth.Block{testutils.DummyBlock(10), testutils.DummyBlock(11)})

	l1[1].Events[0].Data = []byte("event 1 data")
	_, err := DeriveSimpleChain(logger, l1)
	require.ErrorIs(t, err, ErrMalformedBlock)
	require.Contains(t, err.Error(), "position 1")

	l1[1].Events = nil
	_, err = DeriveSimpleChain(logger, l1)
	require.ErrorIs(t, err, ErrMalformedBlock)

	l1[1] = nil
	_, err = DeriveSimpleChain(logger, l1)
	require.ErrorIs(t, err, ErrInvalidChainIndexing)
	_, err = DeriveSimpleBlock(nil)
	require.ErrorIs(t, err, ErrMalformedBlock)
}

func TestDecodeBlockMalformed(t *testing.T) {
	valid, err := EncodeBlock(testutils.DummyBlock(1))
	require.NoError(t, err)
	for _, data := range [][]byte{
		nil,
		{0x01},
		{PlainBlockVersion},
		valid[:len(valid)-1],
		append(append([]byte{}, valid...), 0x00),
	} {
		_, err := DecodeBlock(data)
		require.ErrorIs(t, err, ErrMalformedBlock)
	}
	block, err := DecodeBlock(valid)
	require.NoError(t, err)
	require.True(t, testutils.DummyBlock(1).Equal(block))
}
