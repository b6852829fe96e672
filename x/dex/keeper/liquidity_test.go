package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexcore/x/dex/types"
)

func TestAddLiquidityInRange(t *testing.T) {
	env := newTestEnv(t)
	poolID, err := env.keeper.CreatePool("upaw", "uusdc", 30, math.LegacyNewDec(2))
	require.NoError(t, err)

	liquidity, amount0, amount1, err := env.keeper.AddLiquidity(
		poolID, lpAddr, 0, 40_000,
		math.NewInt(1_000_000), math.NewInt(2_000_000))
	require.NoError(t, err)

	// sqrt(1,000,000 * 2,000,000)
	require.Equal(t, int64(1_414_213), liquidity.Int64())
	require.Equal(t, int64(1_000_000), amount0.Int64())
	require.Equal(t, int64(2_000_000), amount1.Int64())

	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.True(t, pool.Active, "first two-sided deposit activates the pool")
	require.Equal(t, int64(1_000_000), pool.Reserve0.Int64())
	require.Equal(t, int64(2_000_000), pool.Reserve1.Int64())
	require.Equal(t, liquidity, pool.TotalActiveLiquidity)

	// Reserves are held by the module's ledger account.
	require.Equal(t, int64(1_000_000), env.ledger.Balance("upaw", types.ModuleAccount).Int64())
	require.Equal(t, int64(2_000_000), env.ledger.Balance("uusdc", types.ModuleAccount).Int64())

	pos, err := env.keeper.GetPosition(poolID, lpAddr, 0, 40_000)
	require.NoError(t, err)
	require.Equal(t, liquidity, pos.Liquidity)
	require.True(t, pos.OwedAmount0.IsZero())
}

func TestAddLiquiditySingleSided(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	// Current tick is 20000. A range entirely above it takes only asset0.
	liquidity, amount0, amount1, err := env.keeper.AddLiquidity(
		poolID, lpAddr, 30_000, 40_000,
		math.NewInt(50_000), math.NewInt(50_000))
	require.NoError(t, err)
	require.Equal(t, int64(50_000), amount0.Int64())
	require.True(t, amount1.IsZero())
	require.Equal(t, int64(50_000), liquidity.Int64())

	// The out-of-range position does not count as active liquidity.
	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, int64(1_414_213), pool.TotalActiveLiquidity.Int64())

	// A range entirely below the tick takes only asset1; offering none is an
	// error, not a silent zero-liquidity no-op.
	_, _, _, err = env.keeper.AddLiquidity(
		poolID, lpAddr, 0, 10_000,
		math.NewInt(50_000), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, amount0, amount1, err = env.keeper.AddLiquidity(
		poolID, lpAddr, 0, 10_000,
		math.ZeroInt(), math.NewInt(50_000))
	require.NoError(t, err)
	require.True(t, amount0.IsZero())
	require.Equal(t, int64(50_000), amount1.Int64())
}

func TestAddLiquidityValidation(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	_, _, _, err := env.keeper.AddLiquidity(
		poolID, lpAddr, 40_000, 40_000, math.NewInt(1000), math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrInvalidRange)

	_, _, _, err = env.keeper.AddLiquidity(
		poolID, lpAddr, 15, 40_000, math.NewInt(1000), math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrInvalidRange, "ticks must align to spacing")

	_, _, _, err = env.keeper.AddLiquidity(
		"missing", lpAddr, 0, 40_000, math.NewInt(1000), math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrPoolNotFound)

	// Below the minimum liquidity threshold.
	_, _, _, err = env.keeper.AddLiquidity(
		poolID, lpAddr, 0, 40_000, math.NewInt(10), math.NewInt(20))
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestAddLiquidityInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	poorAddr := "paw1poor"
	env.ledger.Mint("upaw", poorAddr, math.NewInt(10_000))
	// No uusdc at all: the second leg fails and the first leg is returned.
	_, _, _, err := env.keeper.AddLiquidity(
		poolID, poorAddr, 0, 40_000, math.NewInt(10_000), math.NewInt(20_000))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	require.Equal(t, int64(10_000), env.ledger.Balance("upaw", poorAddr).Int64())
}

func TestAddLiquidityStorageFailureReturnsFunds(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	env.db.failWrites = true
	_, _, _, err := env.keeper.AddLiquidity(
		poolID, lpAddr, 0, 40_000, math.NewInt(100_000), math.NewInt(200_000))
	require.ErrorIs(t, err, types.ErrStateCorruption)
	env.db.failWrites = false

	// The deposit transferred nothing durably: funds, reserves and the
	// position all read as before the attempt.
	require.Equal(t, int64(100_000_000-1_000_000), env.ledger.Balance("upaw", lpAddr).Int64())
	require.Equal(t, int64(100_000_000-2_000_000), env.ledger.Balance("uusdc", lpAddr).Int64())

	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000), pool.Reserve0.Int64())
	require.Equal(t, int64(1_414_213), pool.TotalActiveLiquidity.Int64())

	pos, err := env.keeper.GetPosition(poolID, lpAddr, 0, 40_000)
	require.NoError(t, err)
	require.Equal(t, int64(1_414_213), pos.Liquidity.Int64())
}

func TestRemoveLiquidityPartial(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	amount0, amount1, err := env.keeper.RemoveLiquidity(
		poolID, lpAddr, 0, 40_000, math.NewInt(707_106))
	require.NoError(t, err)

	// Half the position at price 2: about 500,000 upaw and 1,000,000 uusdc.
	require.InDelta(t, 500_000, float64(amount0.Int64()), 3)
	require.InDelta(t, 1_000_000, float64(amount1.Int64()), 3)

	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, int64(707_107), pool.TotalActiveLiquidity.Int64())

	pos, err := env.keeper.GetPosition(poolID, lpAddr, 0, 40_000)
	require.NoError(t, err)
	require.Equal(t, int64(707_107), pos.Liquidity.Int64())
}

func TestRemoveLiquidityFullDeletesPosition(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	pos, err := env.keeper.GetPosition(poolID, lpAddr, 0, 40_000)
	require.NoError(t, err)

	_, _, err = env.keeper.RemoveLiquidity(poolID, lpAddr, 0, 40_000, pos.Liquidity)
	require.NoError(t, err)

	_, err = env.keeper.GetPosition(poolID, lpAddr, 0, 40_000)
	require.ErrorIs(t, err, types.ErrInsufficientPositionLiquidity)

	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.True(t, pool.TotalActiveLiquidity.IsZero())
}

func TestRemoveLiquidityPaysOwedFees(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	// One swap accrues its 30 upaw fee to the sole in-range position.
	_, err := env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(10_000), math.NewInt(19_000))
	require.NoError(t, err)

	pos, err := env.keeper.GetPosition(poolID, lpAddr, 0, 40_000)
	require.NoError(t, err)
	require.Equal(t, int64(30), pos.OwedAmount0.Int64())

	balanceBefore := env.ledger.Balance("upaw", lpAddr)
	amount0, _, err := env.keeper.RemoveLiquidity(poolID, lpAddr, 0, 40_000, pos.Liquidity)
	require.NoError(t, err)

	// The payout includes the owed fee and lands on the ledger in full.
	require.Equal(t, balanceBefore.Add(amount0), env.ledger.Balance("upaw", lpAddr))

	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.True(t, pool.AccruedFees0.IsZero(), "paid fees leave the accrued balance")
}

func TestRemoveLiquidityValidation(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	_, _, err := env.keeper.RemoveLiquidity(poolID, "paw1stranger", 0, 40_000, math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrInsufficientPositionLiquidity)

	_, _, err = env.keeper.RemoveLiquidity(poolID, lpAddr, 0, 40_000, math.NewInt(2_000_000))
	require.ErrorIs(t, err, types.ErrInsufficientPositionLiquidity, "cannot burn more than the position holds")

	_, _, err = env.keeper.RemoveLiquidity(poolID, lpAddr, 0, 40_000, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}
