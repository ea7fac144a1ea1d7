package driver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/optimistic-specs/op-node/rollup/derive"
)

func TestL1BlockCarriesDeposit(t *testing.T) {
	b := l1Block(5)
	require.Equal(t, uint64(5), b.BlockNumber)
	require.NotEmpty(t, b.Events)
	require.Len(t, b.Txs, 1)

	dep := derive.DeriveDepositBlock(b)
	require.Equal(t, uint64(5), dep.BlockNumber)
	require.NotEmpty(t, dep.Txs)
}

func TestRandomL2BlockDeterministic(t *testing.T) {
	a := randomL2Block(rand.New(rand.NewSource(7)), 3)
	b := randomL2Block(rand.New(rand.NewSource(7)), 3)
	require.True(t, a.Equal(b))
	require.Equal(t, uint64(3), a.BlockNumber)
	require.NotEmpty(t, a.Txs)

	data, err := derive.EncodeBlock(a)
	require.NoError(t, err)
	decoded, err := derive.DecodeBlock(data)
	require.NoError(t, err)
	require.True(t, a.Equal(decoded))
}
