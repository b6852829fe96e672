package keeper

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// volumeWindowSeconds is the rolling accumulation window for volume24h.
const volumeWindowSeconds = 24 * 60 * 60

// swapStage is one priced hop, computed against a staged pool copy. Nothing
// is persisted and no tokens move until the whole route commits.
type swapStage struct {
	result     types.SwapResult
	feeAmount  math.Int
	zeroForOne bool
}

// Swap executes a single-pool swap for the trader.
//
// Ordering is checks, effects, interactions: the MEV guard and pricing run
// first, token movement next, and pool state is committed last so any failure
// leaves zero observable change.
func (k *Keeper) Swap(trader, poolID, assetIn string, amountIn, minAmountOut math.Int) (types.SwapResult, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	// 1. Validate inputs
	if err := validateSwapAmounts(amountIn, minAmountOut); err != nil {
		return types.SwapResult{}, err
	}
	pool, err := k.getPool(poolID)
	if err != nil {
		return types.SwapResult{}, err
	}

	// 2. MEV guard: authorize and record this attempt
	if err := k.authorizeTrade(trader); err != nil {
		return types.SwapResult{}, err
	}

	// 3. Price the swap against a staged copy of the pool
	stage, err := k.stageSwap(&pool, trader, assetIn, amountIn)
	if err != nil {
		return types.SwapResult{}, err
	}
	if stage.result.AmountOut.LT(minAmountOut) {
		return types.SwapResult{}, types.ErrSlippageExceeded.Wrapf(
			"amount out %s below minimum %s", stage.result.AmountOut, minAmountOut)
	}

	// 4. Stage the state commit
	w := k.newStagedWrites()
	defer w.close()
	if err := k.stageCommit(w, &pool, stage); err != nil {
		return types.SwapResult{}, err
	}

	// 5. Move tokens
	if err := k.transfer(assetIn, trader, types.ModuleAccount, amountIn); err != nil {
		return types.SwapResult{}, err
	}
	if err := k.transfer(stage.result.AssetOut, types.ModuleAccount, trader, stage.result.AmountOut); err != nil {
		_ = k.transfer(assetIn, types.ModuleAccount, trader, amountIn)
		return types.SwapResult{}, err
	}

	// 6. Flush the staged writes; tokens go back if storage fails
	if err := w.commit(); err != nil {
		_ = k.transfer(stage.result.AssetOut, trader, types.ModuleAccount, stage.result.AmountOut)
		_ = k.transfer(assetIn, types.ModuleAccount, trader, amountIn)
		return types.SwapResult{}, err
	}

	k.logger.Info("swap executed",
		"pool_id", poolID,
		"trader", trader,
		"asset_in", assetIn,
		"amount_in", amountIn.String(),
		"amount_out", stage.result.AmountOut.String(),
		"fee", stage.result.Fee.String(),
		"price_impact", stage.result.PriceImpact.String(),
	)
	if k.metrics != nil {
		k.metrics.SwapsTotal.WithLabelValues("single").Inc()
		k.metrics.observeSwapVolume(amountIn)
	}
	return stage.result, nil
}

// stageSwap prices one hop and applies the reserve, price, volume and
// volatility updates to the staged pool copy. The raw constant-product output
// is bounded twice: a hard drain rejection at maxPoolDrainPercent of the
// output reserve, then a proportional clamp down to maxPriceImpact.
func (k *Keeper) stageSwap(pool *types.Pool, trader, assetIn string, amountIn math.Int) (swapStage, error) {
	if !pool.Active {
		return swapStage{}, types.ErrInactivePool.Wrapf("pool %s is not active", pool.ID)
	}
	reserveIn, reserveOut, assetOut, zeroForOne, err := pool.ReservesFor(assetIn)
	if err != nil {
		return swapStage{}, err
	}

	// Flag unusually deep trades relative to pool depth for the MEV guard.
	// The flag outlives this swap whether or not it succeeds. Read-only
	// quotes pass an empty trader and leave guard state untouched.
	if trader != "" && k.params.UnusualVolumeRatio.MulInt(reserveIn).TruncateInt().LT(amountIn) {
		if err := k.flagUnusualVolume(trader); err != nil {
			return swapStage{}, err
		}
	}

	// Fee comes off the input before pricing.
	fee := k.feeModel().EffectiveFee(*pool, k.params)
	amountInAfterFee := math.LegacyOneDec().Sub(fee).MulInt(amountIn).TruncateInt()
	if !amountInAfterFee.IsPositive() {
		return swapStage{}, types.ErrInvalidAmount.Wrapf("amount %s too small after fee %s", amountIn, fee)
	}
	feeAmount := amountIn.Sub(amountInAfterFee)

	// Constant-product output within the active range.
	denominator, err := types.SafeAddInt(reserveIn, amountInAfterFee)
	if err != nil {
		return swapStage{}, err
	}
	amountOut, err := types.MulDiv(reserveOut, amountInAfterFee, denominator)
	if err != nil {
		return swapStage{}, err
	}
	if !amountOut.IsPositive() {
		return swapStage{}, types.ErrInvalidAmount.Wrapf("amount %s yields zero output", amountIn)
	}

	// Hard bound: reject swaps that would drain the pool.
	drainLimit := k.params.MaxPoolDrainPercent.MulInt(reserveOut).TruncateInt()
	if amountOut.GT(drainLimit) {
		return swapStage{}, types.ErrExcessivePriceImpact.Wrapf(
			"output %s exceeds %s%% of reserve %s", amountOut,
			k.params.MaxPoolDrainPercent.MulInt64(100).TruncateInt(), reserveOut)
	}

	// Soft bound: clamp the output to the price-impact ceiling.
	priceImpact := math.LegacyNewDecFromInt(amountOut).Quo(math.LegacyNewDecFromInt(reserveOut))
	if priceImpact.GT(k.params.MaxPriceImpact) {
		amountOut = k.params.MaxPriceImpact.MulInt(reserveOut).TruncateInt()
		priceImpact = math.LegacyNewDecFromInt(amountOut).Quo(math.LegacyNewDecFromInt(reserveOut))
	}

	// Effects on the staged copy. The full input lands in the reserve; the
	// fee portion is tracked separately in accrued fees.
	newReserveIn, err := types.SafeAddInt(reserveIn, amountIn)
	if err != nil {
		return swapStage{}, err
	}
	newReserveOut, err := types.SafeSubInt(reserveOut, amountOut)
	if err != nil {
		return swapStage{}, err
	}
	if zeroForOne {
		pool.Reserve0, pool.Reserve1 = newReserveIn, newReserveOut
	} else {
		pool.Reserve0, pool.Reserve1 = newReserveOut, newReserveIn
	}

	oldPrice := pool.Price
	newPrice, err := pool.SpotPrice()
	if err != nil {
		return swapStage{}, err
	}
	pool.Price = newPrice
	k.updateVolatility(pool, oldPrice, newPrice)
	k.updateVolume(pool, amountIn)

	return swapStage{
		result: types.SwapResult{
			PoolID:      pool.ID,
			AssetIn:     assetIn,
			AssetOut:    assetOut,
			AmountIn:    amountIn,
			AmountOut:   amountOut,
			Fee:         fee,
			FeeAmount:   feeAmount,
			PriceImpact: priceImpact,
			NewPrice:    newPrice,
		},
		feeAmount:  feeAmount,
		zeroForOne: zeroForOne,
	}, nil
}

// stageCommit books each staged hop's fees, reconciles active liquidity under
// the moved price and stages the pool and its positions into the caller's
// batch. Hops on the same pool must arrive together so owed fees accumulate.
func (k *Keeper) stageCommit(w *stagedWrites, pool *types.Pool, stages ...swapStage) error {
	positions, err := k.getPoolPositions(pool.ID)
	if err != nil {
		return err
	}
	for _, stage := range stages {
		if err := distributeFees(pool, positions, stage.feeAmount, stage.zeroForOne); err != nil {
			return err
		}
	}
	total := math.ZeroInt()
	for i := range positions {
		if pool.ContainsPrice(positions[i].TickLower, positions[i].TickUpper) {
			total = total.Add(positions[i].Liquidity)
		}
		if err := k.stagePosition(w, positions[i]); err != nil {
			return err
		}
	}
	pool.TotalActiveLiquidity = total
	return k.stagePool(w, *pool)
}

// updateVolatility folds the realized price delta into the pool's EWMA
// volatility estimate.
func (k *Keeper) updateVolatility(pool *types.Pool, oldPrice, newPrice math.LegacyDec) {
	if !oldPrice.IsPositive() {
		return
	}
	delta := newPrice.Sub(oldPrice).Abs().Quo(oldPrice)
	decay := k.params.VolatilityDecay
	pool.VolatilityEstimate = pool.VolatilityEstimate.Mul(decay).
		Add(delta.Mul(math.LegacyOneDec().Sub(decay)))
}

// updateVolume rolls the 24h volume window forward and books the trade.
func (k *Keeper) updateVolume(pool *types.Pool, amountIn math.Int) {
	now := k.clock.Now().Unix()
	if now-pool.VolumeWindowStart >= volumeWindowSeconds {
		pool.Volume24h = math.ZeroInt()
		pool.VolumeWindowStart = now
	}
	pool.Volume24h = pool.Volume24h.Add(amountIn)
}

func validateSwapAmounts(amountIn, minAmountOut math.Int) error {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return types.ErrInvalidAmount.Wrap("amount in must be positive")
	}
	if minAmountOut.IsNil() || minAmountOut.IsNegative() {
		return types.ErrInvalidAmount.Wrap("minimum amount out cannot be negative")
	}
	return nil
}
