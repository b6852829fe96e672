package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexcore/x/dex/types"
)

func TestGenesisRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)
	createSecondPool(t, env)

	_, err := env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(10_000), math.NewInt(1))
	require.NoError(t, err)

	deadline := env.clock.Now().Add(time.Hour).Unix()
	_, err = env.keeper.InitiateCrossChainSwap(
		traderAddr, "upaw", "uatom", math.NewInt(1_000), math.NewInt(990),
		"cosmoshub-4", "cosmos1dest", deadline)
	require.NoError(t, err)

	exported, err := env.keeper.ExportGenesis()
	require.NoError(t, err)
	require.Len(t, exported.Pools, 2)
	require.Len(t, exported.Positions, 2)
	require.Len(t, exported.TraderActivity, 1)
	require.Len(t, exported.CrossChainSwaps, 1)
	require.Equal(t, uint64(1), exported.SwapSequence)

	// Import into a fresh store and compare the re-export.
	restored := newTestEnv(t)
	require.NoError(t, restored.keeper.InitGenesis(exported))

	reexported, err := restored.keeper.ExportGenesis()
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	// The restored engine serves reads as before.
	pool, err := restored.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, int64(1_010_000), pool.Reserve0.Int64())

	byAssets, err := restored.keeper.GetPoolByAssets("uusdc", "upaw", 30)
	require.NoError(t, err)
	require.Equal(t, poolID, byAssets.ID)
}

func TestInitGenesisRejectsOrphanPosition(t *testing.T) {
	env := newTestEnv(t)

	gs := &types.GenesisState{
		Positions: []types.Position{{
			Owner:       lpAddr,
			PoolID:      "missing",
			TickLower:   0,
			TickUpper:   100,
			Liquidity:   math.NewInt(1000),
			OwedAmount0: math.ZeroInt(),
			OwedAmount1: math.ZeroInt(),
		}},
	}
	require.ErrorIs(t, env.keeper.InitGenesis(gs), types.ErrPoolNotFound)
}

func TestCheckInvariants(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)
	require.NoError(t, env.keeper.CheckInvariants())

	// A heavy trading sequence must keep the aggregates reconciled.
	for i := 0; i < 5; i++ {
		_, err := env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(5_000), math.NewInt(1))
		require.NoError(t, err)
		env.nextBlock()
	}
	_, _, _, err := env.keeper.AddLiquidity(
		poolID, lpAddr, 10_000, 30_000, math.NewInt(100_000), math.NewInt(200_000))
	require.NoError(t, err)

	require.NoError(t, env.keeper.CheckInvariants())
}
