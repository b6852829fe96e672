package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexcore/x/dex/keeper"
	"github.com/paw-chain/dexcore/x/dex/types"
)

func TestSwapConstantProduct(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	// reserve0=1,000,000, reserve1=2,000,000, fee 30 bps:
	// after-fee input 9,970 yields 2,000,000*9,970/1,009,970 = 19,743.
	result, err := env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(10_000), math.NewInt(19_000))
	require.NoError(t, err)

	require.Equal(t, int64(19_743), result.AmountOut.Int64())
	require.Equal(t, "uusdc", result.AssetOut)
	require.Equal(t, int64(30), result.FeeAmount.Int64())
	require.Equal(t, "0.003000000000000000", result.Fee.String())

	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)

	// Conservation: the full input lands in the reserve, the output leaves it.
	require.Equal(t, int64(1_010_000), pool.Reserve0.Int64())
	require.Equal(t, int64(1_980_257), pool.Reserve1.Int64())
	require.Equal(t, pool.Price, result.NewPrice)
	require.Equal(t, int64(10_000), pool.Volume24h.Int64())
	require.True(t, pool.VolatilityEstimate.IsPositive(), "realized price move feeds the estimate")

	// Token movement matches the result exactly.
	require.Equal(t, int64(100_000_000-10_000), env.ledger.Balance("upaw", traderAddr).Int64())
	require.Equal(t, int64(100_000_000+19_743), env.ledger.Balance("uusdc", traderAddr).Int64())
}

func TestSwapSlippageLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)
	before, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)

	_, err = env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(10_000), math.NewInt(1_000_000))
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	after, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, before.Reserve0, after.Reserve0)
	require.Equal(t, before.Reserve1, after.Reserve1)
	require.Equal(t, before.Price, after.Price)
	require.Equal(t, int64(100_000_000), env.ledger.Balance("upaw", traderAddr).Int64())
}

func TestSwapPriceImpactClamp(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	// Raw output would be ~16.6% of reserve1; it is clamped to the 5% cap.
	result, err := env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(200_000), math.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, int64(100_000), result.AmountOut.Int64(), "exactly 5%% of the output reserve")
	require.Equal(t, "0.050000000000000000", result.PriceImpact.String())
}

func TestSwapDrainRejected(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)
	before, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)

	// Raw output would be ~50% of reserve1, beyond the 30% drain bound.
	_, err = env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(1_000_000), math.NewInt(1))
	require.ErrorIs(t, err, types.ErrExcessivePriceImpact)

	after, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, before.Reserve0, after.Reserve0)
	require.Equal(t, before.Reserve1, after.Reserve1)
}

func TestSwapMonotonicPriceImpact(t *testing.T) {
	env := newTestEnv(t)
	createStandardPool(t, env)

	path := []string{"upaw", "uusdc"}
	tiers := []uint32{30}

	last := math.LegacyZeroDec()
	for _, amountIn := range []int64{1_000, 5_000, 20_000, 50_000, 100_000, 300_000} {
		quote, err := env.keeper.Quote(path, tiers, math.NewInt(amountIn))
		require.NoError(t, err)
		require.True(t, quote.PriceImpact.GTE(last),
			"impact for %d must not be below impact for the previous amount", amountIn)
		last = quote.PriceImpact
	}
}

func TestSwapValidation(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	_, err := env.keeper.Swap(traderAddr, poolID, "upaw", math.ZeroInt(), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = env.keeper.Swap(traderAddr, poolID, "uatom", math.NewInt(1000), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidPath, "asset not in pool")

	_, err = env.keeper.Swap(traderAddr, "missing", "upaw", math.NewInt(1000), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrPoolNotFound)

	// A freshly created pool without deposits cannot trade.
	emptyID, err := env.keeper.CreatePool("uatom", "upaw", 30, math.LegacyNewDec(1))
	require.NoError(t, err)
	env.nextBlock()
	_, err = env.keeper.Swap(traderAddr, emptyID, "upaw", math.NewInt(1000), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInactivePool)
}

func TestSwapDistributesFeesToActivePositions(t *testing.T) {
	env := newTestEnv(t)
	poolID := createStandardPool(t, env)

	// Second LP joins the active range with a quarter of the liquidity.
	secondLP := "paw1lp2"
	env.ledger.Mint("upaw", secondLP, math.NewInt(1_000_000))
	env.ledger.Mint("uusdc", secondLP, math.NewInt(1_000_000))
	secondLiquidity, _, _, err := env.keeper.AddLiquidity(
		poolID, secondLP, 0, 40_000, math.NewInt(250_000), math.NewInt(500_000))
	require.NoError(t, err)
	// sqrt(250,000 * 500,000)
	require.Equal(t, int64(353_553), secondLiquidity.Int64())

	_, err = env.keeper.Swap(traderAddr, poolID, "upaw", math.NewInt(100_000), math.NewInt(1))
	require.NoError(t, err)

	first, err := env.keeper.GetPosition(poolID, lpAddr, 0, 40_000)
	require.NoError(t, err)
	second, err := env.keeper.GetPosition(poolID, secondLP, 0, 40_000)
	require.NoError(t, err)

	// 300 total fee split pro rata by liquidity share.
	total := first.OwedAmount0.Add(second.OwedAmount0)
	require.LessOrEqual(t, total.Int64(), int64(300))
	require.Greater(t, total.Int64(), int64(295), "only truncation dust may be withheld")
	require.True(t, first.OwedAmount0.GT(second.OwedAmount0))
	require.True(t, second.OwedAmount0.IsPositive())

	pool, err := env.keeper.GetPool(poolID)
	require.NoError(t, err)
	require.Equal(t, int64(300), pool.AccruedFees0.Int64())
	require.Equal(t, secondLiquidity, second.Liquidity)
}

func TestSwapLargeAmountRecordsMetrics(t *testing.T) {
	env := newTestEnv(t)
	metrics := keeper.NewMetrics(prometheus.NewRegistry())
	env.keeper.WithMetrics(metrics)

	// Reserves and amounts sized like an 18-decimal asset, far beyond int64.
	whale := "paw1whale"
	reserve0 := math.NewIntWithDecimal(1, 20)
	reserve1 := math.NewIntWithDecimal(2, 20)
	env.ledger.Mint("upaw", whale, reserve0.MulRaw(2))
	env.ledger.Mint("uusdc", whale, reserve1.MulRaw(2))

	poolID, err := env.keeper.CreatePool("upaw", "uusdc", 30, math.LegacyNewDec(2))
	require.NoError(t, err)
	_, _, _, err = env.keeper.AddLiquidity(poolID, whale, 0, 40_000, reserve0, reserve1)
	require.NoError(t, err)

	amountIn := math.NewIntWithDecimal(3, 19)
	result, err := env.keeper.Swap(whale, poolID, "upaw", amountIn, math.OneInt())
	require.NoError(t, err)

	// The impact clamp caps the output at 5% of the output reserve.
	require.Equal(t, math.NewIntWithDecimal(1, 19), result.AmountOut)
	require.InEpsilon(t, 3e19, testutil.ToFloat64(metrics.SwapVolume), 1e-9)
}
