package keeper

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// feeModel is the closed set of swap pricing strategies. Each strategy maps
// the pool's rolling state to an effective fee fraction of the input notional.
type feeModel interface {
	EffectiveFee(pool types.Pool, params types.Params) math.LegacyDec
}

// volatilityFeeModel widens the fee with realized volatility to compensate
// liquidity providers for adverse selection, and compresses it for
// high-volume pools to stay competitive.
type volatilityFeeModel struct{}

func (volatilityFeeModel) EffectiveFee(pool types.Pool, params types.Params) math.LegacyDec {
	baseFee := pool.BaseFee()
	fee := baseFee.Mul(math.LegacyOneDec().Add(pool.VolatilityEstimate))
	fee = fee.Mul(volumeDiscount(pool, params))
	return types.Clamp(fee, baseFee.QuoInt64(2), params.MaxFee)
}

// staticFeeModel charges the pool's base fee, still honoring the volume
// discount and the global ceiling.
type staticFeeModel struct{}

func (staticFeeModel) EffectiveFee(pool types.Pool, params types.Params) math.LegacyDec {
	baseFee := pool.BaseFee()
	fee := baseFee.Mul(volumeDiscount(pool, params))
	return types.Clamp(fee, baseFee.QuoInt64(2), params.MaxFee)
}

func volumeDiscount(pool types.Pool, params types.Params) math.LegacyDec {
	if !pool.Volume24h.IsNil() && pool.Volume24h.GT(params.HighVolumeThreshold) {
		return params.VolumeDiscount
	}
	return math.LegacyOneDec()
}

func (k *Keeper) feeModel() feeModel {
	if k.params.FeeModel == types.FeeModelStatic {
		return staticFeeModel{}
	}
	return volatilityFeeModel{}
}

// EffectiveFee exposes the current fee for a pool without mutating state.
func (k *Keeper) EffectiveFee(poolID string) (math.LegacyDec, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pool, err := k.getPool(poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return k.feeModel().EffectiveFee(pool, k.params), nil
}

// distributeFees books a collected fee against the pool and credits it
// pro rata to positions whose range contains the current price, mutating both
// in place; the caller stages the touched records. Rounding dust stays in the
// pool's accrued balance so owed amounts never exceed custody.
func distributeFees(pool *types.Pool, positions []types.Position, feeAmount math.Int, zeroForOne bool) error {
	if feeAmount.IsZero() {
		return nil
	}
	if zeroForOne {
		pool.AccruedFees0 = pool.AccruedFees0.Add(feeAmount)
	} else {
		pool.AccruedFees1 = pool.AccruedFees1.Add(feeAmount)
	}
	if pool.TotalActiveLiquidity.IsZero() {
		return nil
	}

	for i := range positions {
		pos := &positions[i]
		if !pool.ContainsPrice(pos.TickLower, pos.TickUpper) {
			continue
		}
		share, err := types.MulDiv(feeAmount, pos.Liquidity, pool.TotalActiveLiquidity)
		if err != nil {
			return err
		}
		if share.IsZero() {
			continue
		}
		if zeroForOne {
			pos.OwedAmount0 = pos.OwedAmount0.Add(share)
		} else {
			pos.OwedAmount1 = pos.OwedAmount1.Add(share)
		}
	}
	return nil
}
