package derive

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
	"github.com/ethereum-optimism/optimistic-specs/op-service/testlog"
	"github.com/ethereum-optimism/optimistic-specs/op-service/testutils"
)

func TestDeriveChainPending(t *testing.T) {
	logger := testlog.Logger(t, log.LevelDebug)
	for n := 0; n <= 3; n++ {
		out, err := DeriveChain(logger, testutils.DummyL1Chain(n), 3)
		require.NoError(t, err)
		require.Empty(t, out, "chain of %d blocks has no final epoch", n)
	}
	out, err := DeriveChain(logger, testutils.DummyL1Chain(4), 3)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestDeriveChain(t *testing.T) {
	logger := testlog.Logger(t, log.LevelDebug)
	const timeout = 2
	chain := testutils.DummyL1Chain(6)
	withBatch(t, chain[1], 1)
	withBatch(t, chain[2], 1, 2)
	withBatch(t, chain[3], 3, 3)
	withBatch(t, chain[4], 4, 2)

	out, err := DeriveChain(logger, chain, timeout)
	require.NoError(t, err)
	// epochs 1 to 4 are final. Block 5 carries a block for epoch 2 behind one for epoch 4: epoch 3
	// drops it, epoch 4 keeps it since the watermark already sits at 4.
	require.Equal(t, []uint64{1, 1, 1, 2, 2, 3, 3, 3, 4, 4, 2}, blockNumbers(out))
	for _, i := range []int{0, 3, 5, 8} {
		require.Contains(t, out[i].BlockHash, DepositTag)
	}
}

func TestDeriveChainPrefixStability(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	const timeout = 3
	chain := testutils.DummyL1Chain(12)
	for i := 1; i < len(chain); i++ {
		target := uint64(i)
		if i > 2 {
			target = uint64(i - 2)
		}
		withBatch(t, chain[i], target)
	}
	full, err := DeriveChain(logger, chain, timeout)
	require.NoError(t, err)
	for n := 0; n <= len(chain); n++ {
		prefix, err := DeriveChain(logger, chain[:n], timeout)
		require.NoError(t, err)
		require.LessOrEqual(t, len(prefix), len(full))
		require.True(t, eth.BlocksEqual(prefix, full[:len(prefix)]), "prefix of %d blocks", n)
	}
}

func TestDeriveChainIndexing(t *testing.T) {
	logger := testlog.Logger(t, log.LevelDebug)

	chain := testutils.DummyL1Chain(5)
	chain[2].BlockNumber = 7
	_, err := DeriveChain(logger, chain, 1)
	require.ErrorIs(t, err, ErrInvalidChainIndexing)
	var indexErr *ChainIndexError
	require.True(t, errors.As(err, &indexErr))
	require.Equal(t, 2, indexErr.Index)
	require.Equal(t, uint64(3), indexErr.Expected)
	require.Equal(t, uint64(7), indexErr.Got)

	// checked before any epoch is derived, even if no epoch is final
	zeroBased := []*eth.Block{testutils.DummyBlock(0), testutils.DummyBlock(1)}
	_, err = DeriveChain(logger, zeroBased, 5)
	require.ErrorIs(t, err, ErrInvalidChainIndexing)

	withNil := testutils.DummyL1Chain(3)
	withNil[1] = nil
	_, err = DeriveChain(logger, withNil, 1)
	require.ErrorIs(t, err, ErrInvalidChainIndexing)
	require.True(t, errors.As(err, &indexErr))
	require.True(t, indexErr.Missing)
}

func TestFinalizedEpochs(t *testing.T) {
	require.Equal(t, 0, FinalizedEpochs(0, 0))
	require.Equal(t, 3, FinalizedEpochs(3, 0))
	require.Equal(t, 0, FinalizedEpochs(2, 2))
	require.Equal(t, 1, FinalizedEpochs(3, 2))
	require.Equal(t, 8, FinalizedEpochs(10, 2))
}

func TestDeriveChainZeroTimeout(t *testing.T) {
	logger := testlog.Logger(t, log.LevelDebug)
	chain := testutils.DummyL1Chain(3)
	withBatch(t, chain[1], 1, 2)
	out, err := DeriveChain(logger, chain, 0)
	require.NoError(t, err)
	// without a window only deposits are derived
	require.Equal(t, []uint64{1, 2, 3}, blockNumbers(out))
}
