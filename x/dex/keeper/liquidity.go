package keeper

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// AddLiquidity deposits into a tick-ranged position and returns the minted
// liquidity plus the token amounts actually consumed. If the current price is
// below the range only asset0 is taken, above it only asset1; inside the
// range the deposit is split proportionally at the current price.
func (k *Keeper) AddLiquidity(poolID, owner string, tickLower, tickUpper int64, amount0Desired, amount1Desired math.Int) (liquidity, amount0, amount1 math.Int, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	zero := math.ZeroInt()

	// 1. Validate inputs before touching state
	pool, err := k.getPool(poolID)
	if err != nil {
		return zero, zero, zero, err
	}
	if owner == "" {
		return zero, zero, zero, types.ErrInvalidAmount.Wrap("empty owner")
	}
	if err := types.ValidateIdentifier(owner); err != nil {
		return zero, zero, zero, err
	}
	if err := types.ValidateRange(tickLower, tickUpper, pool.TickSpacing); err != nil {
		return zero, zero, zero, err
	}
	if amount0Desired.IsNil() || amount1Desired.IsNil() || amount0Desired.IsNegative() || amount1Desired.IsNegative() {
		return zero, zero, zero, types.ErrInvalidAmount.Wrap("negative or nil deposit amount")
	}

	// 2. Compute the liquidity and token amounts for the range
	liquidity, amount0, amount1, err = computeDeposit(pool, tickLower, tickUpper, amount0Desired, amount1Desired)
	if err != nil {
		return zero, zero, zero, err
	}
	if liquidity.LT(k.params.MinLiquidity) {
		return zero, zero, zero, types.ErrInvalidAmount.Wrapf(
			"deposit liquidity %s below minimum %s", liquidity, k.params.MinLiquidity)
	}

	// 3. Stage the position and pool writes
	w := k.newStagedWrites()
	defer w.close()

	pos, found, err := k.getPosition(poolID, owner, tickLower, tickUpper)
	if err != nil {
		return zero, zero, zero, err
	}
	if !found {
		pos = types.Position{
			Owner:       owner,
			PoolID:      poolID,
			TickLower:   tickLower,
			TickUpper:   tickUpper,
			Liquidity:   math.ZeroInt(),
			OwedAmount0: math.ZeroInt(),
			OwedAmount1: math.ZeroInt(),
			CreatedAt:   k.clock.Now().Unix(),
		}
	}
	pos.Liquidity = pos.Liquidity.Add(liquidity)
	if err := k.stagePosition(w, pos); err != nil {
		return zero, zero, zero, err
	}

	pool.Reserve0 = pool.Reserve0.Add(amount0)
	pool.Reserve1 = pool.Reserve1.Add(amount1)
	if !pool.Active && pool.Reserve0.IsPositive() && pool.Reserve1.IsPositive() {
		pool.Active = true
	}
	// The staged deposit is not visible to the range scan yet, so the new
	// liquidity goes on top of the reconciled total.
	if err := k.reconcileActiveLiquidity(&pool); err != nil {
		return zero, zero, zero, err
	}
	if pool.ContainsPrice(tickLower, tickUpper) {
		pool.TotalActiveLiquidity = pool.TotalActiveLiquidity.Add(liquidity)
	}
	if err := k.stagePool(w, pool); err != nil {
		return zero, zero, zero, err
	}

	// 4. Pull funds into module custody
	if err := k.transfer(pool.Asset0, owner, types.ModuleAccount, amount0); err != nil {
		return zero, zero, zero, err
	}
	if err := k.transfer(pool.Asset1, owner, types.ModuleAccount, amount1); err != nil {
		// Give back the first leg so a failed deposit moves nothing.
		_ = k.transfer(pool.Asset0, types.ModuleAccount, owner, amount0)
		return zero, zero, zero, err
	}

	// 5. Flush the staged writes; funds go back if storage fails
	if err := w.commit(); err != nil {
		_ = k.transfer(pool.Asset1, types.ModuleAccount, owner, amount1)
		_ = k.transfer(pool.Asset0, types.ModuleAccount, owner, amount0)
		return zero, zero, zero, err
	}

	k.logger.Info("liquidity added",
		"pool_id", poolID,
		"owner", owner,
		"tick_lower", tickLower,
		"tick_upper", tickUpper,
		"liquidity", liquidity.String(),
	)
	if k.metrics != nil {
		k.metrics.LiquidityOps.WithLabelValues("add").Inc()
	}
	return liquidity, amount0, amount1, nil
}

// RemoveLiquidity withdraws part of a position plus all fees owed to it.
// Withdrawal is proportional at the current price; a fully drained position
// is deleted.
func (k *Keeper) RemoveLiquidity(poolID, owner string, tickLower, tickUpper int64, liquidityToRemove math.Int) (amount0, amount1 math.Int, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	zero := math.ZeroInt()

	pool, err := k.getPool(poolID)
	if err != nil {
		return zero, zero, err
	}
	if liquidityToRemove.IsNil() || !liquidityToRemove.IsPositive() {
		return zero, zero, types.ErrInvalidAmount.Wrap("liquidity to remove must be positive")
	}

	pos, found, err := k.getPosition(poolID, owner, tickLower, tickUpper)
	if err != nil {
		return zero, zero, err
	}
	if !found {
		return zero, zero, types.ErrInsufficientPositionLiquidity.Wrapf(
			"no position for %s in pool %s range [%d,%d)", owner, poolID, tickLower, tickUpper)
	}
	if pos.Owner != owner {
		return zero, zero, types.ErrNotOwner.Wrapf("position owned by %s", pos.Owner)
	}
	if liquidityToRemove.GT(pos.Liquidity) {
		return zero, zero, types.ErrInsufficientPositionLiquidity.Wrapf(
			"requested %s, position holds %s", liquidityToRemove, pos.Liquidity)
	}

	amount0, amount1, err = computeWithdrawal(pool, pos, liquidityToRemove)
	if err != nil {
		return zero, zero, err
	}

	// Owed fees are paid out in full alongside the principal. Rounding in the
	// proportional valuation can overshoot the reserve by a few units, so the
	// payout is capped at what the pool actually holds.
	owed0, owed1 := pos.OwedAmount0, pos.OwedAmount1
	payout0 := math.MinInt(amount0.Add(owed0), pool.Reserve0)
	payout1 := math.MinInt(amount1.Add(owed1), pool.Reserve1)

	// Stage the position and pool writes
	w := k.newStagedWrites()
	defer w.close()

	pool.Reserve0 = pool.Reserve0.Sub(payout0)
	pool.Reserve1 = pool.Reserve1.Sub(payout1)
	pool.AccruedFees0 = math.MaxInt(pool.AccruedFees0.Sub(owed0), math.ZeroInt())
	pool.AccruedFees1 = math.MaxInt(pool.AccruedFees1.Sub(owed1), math.ZeroInt())
	if pool.Reserve0.IsZero() || pool.Reserve1.IsZero() {
		pool.Active = false
	}

	pos.Liquidity = pos.Liquidity.Sub(liquidityToRemove)
	pos.OwedAmount0 = math.ZeroInt()
	pos.OwedAmount1 = math.ZeroInt()
	if pos.Liquidity.IsZero() {
		if err := w.delete(positionKey(poolID, owner, tickLower, tickUpper)); err != nil {
			return zero, zero, err
		}
	} else {
		if err := k.stagePosition(w, pos); err != nil {
			return zero, zero, err
		}
	}

	// The staged burn is not visible to the range scan yet.
	if err := k.reconcileActiveLiquidity(&pool); err != nil {
		return zero, zero, err
	}
	if pool.ContainsPrice(pos.TickLower, pos.TickUpper) {
		pool.TotalActiveLiquidity = pool.TotalActiveLiquidity.Sub(liquidityToRemove)
	}
	if err := k.stagePool(w, pool); err != nil {
		return zero, zero, err
	}

	// Release funds from module custody
	if err := k.transfer(pool.Asset0, types.ModuleAccount, owner, payout0); err != nil {
		return zero, zero, err
	}
	if err := k.transfer(pool.Asset1, types.ModuleAccount, owner, payout1); err != nil {
		_ = k.transfer(pool.Asset0, owner, types.ModuleAccount, payout0)
		return zero, zero, err
	}

	// Flush the staged writes; funds return to custody if storage fails
	if err := w.commit(); err != nil {
		_ = k.transfer(pool.Asset1, owner, types.ModuleAccount, payout1)
		_ = k.transfer(pool.Asset0, owner, types.ModuleAccount, payout0)
		return zero, zero, err
	}

	k.logger.Info("liquidity removed",
		"pool_id", poolID,
		"owner", owner,
		"liquidity", liquidityToRemove.String(),
		"amount0", payout0.String(),
		"amount1", payout1.String(),
	)
	if k.metrics != nil {
		k.metrics.LiquidityOps.WithLabelValues("remove").Inc()
	}
	return payout0, payout1, nil
}

// GetPosition returns one position record.
func (k *Keeper) GetPosition(poolID, owner string, tickLower, tickUpper int64) (types.Position, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	pos, found, err := k.getPosition(poolID, owner, tickLower, tickUpper)
	if err != nil {
		return types.Position{}, err
	}
	if !found {
		return types.Position{}, types.ErrInsufficientPositionLiquidity.Wrapf(
			"no position for %s in pool %s range [%d,%d)", owner, poolID, tickLower, tickUpper)
	}
	return pos, nil
}

// GetPoolPositions returns all positions of one pool.
func (k *Keeper) GetPoolPositions(poolID string) ([]types.Position, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.getPoolPositions(poolID)
}

// computeDeposit derives (liquidity, amount0, amount1) for a deposit into a
// range relative to the current pool price. A deposit that cannot mint
// liquidity with the provided amounts is rejected rather than silently
// accepted as a no-op.
func computeDeposit(pool types.Pool, tickLower, tickUpper int64, amount0Desired, amount1Desired math.Int) (math.Int, math.Int, math.Int, error) {
	tick := pool.CurrentTick()
	zero := math.ZeroInt()

	switch {
	case tick < tickLower:
		// Price below the range: position is entirely asset0.
		if !amount0Desired.IsPositive() {
			return zero, zero, zero, types.ErrInvalidAmount.Wrap("range above current price requires asset0")
		}
		return amount0Desired, amount0Desired, zero, nil

	case tick >= tickUpper:
		// Price above the range: position is entirely asset1.
		if !amount1Desired.IsPositive() {
			return zero, zero, zero, types.ErrInvalidAmount.Wrap("range below current price requires asset1")
		}
		return amount1Desired, zero, amount1Desired, nil

	default:
		// In range: match amount1 = amount0 * price, limited by both sides.
		if !amount0Desired.IsPositive() || !amount1Desired.IsPositive() {
			return zero, zero, zero, types.ErrInvalidAmount.Wrap("in-range deposit requires both assets")
		}
		amount0 := amount0Desired
		amount1 := pool.Price.MulInt(amount0).TruncateInt()
		if amount1.GT(amount1Desired) {
			amount1 = amount1Desired
			amount0 = math.LegacyNewDecFromInt(amount1).Quo(pool.Price).TruncateInt()
		}
		if !amount0.IsPositive() || !amount1.IsPositive() {
			return zero, zero, zero, types.ErrInvalidAmount.Wrap("deposit amounts round to zero at current price")
		}
		product, err := types.MulDiv(amount0, amount1, math.OneInt())
		if err != nil {
			return zero, zero, zero, err
		}
		liquidity, err := types.Sqrt(product)
		if err != nil {
			return zero, zero, zero, err
		}
		return liquidity, amount0, amount1, nil
	}
}

// computeWithdrawal derives the token amounts for burning part of a position,
// priced at the current pool price for in-range positions.
func computeWithdrawal(pool types.Pool, pos types.Position, liquidity math.Int) (math.Int, math.Int, error) {
	tick := pool.CurrentTick()
	zero := math.ZeroInt()

	switch {
	case tick < pos.TickLower:
		return liquidity, zero, nil
	case tick >= pos.TickUpper:
		return zero, liquidity, nil
	default:
		sqrtPrice, err := pool.Price.ApproxSqrt()
		if err != nil {
			return zero, zero, types.ErrArithmetic.Wrapf("sqrt price: %v", err)
		}
		if !sqrtPrice.IsPositive() {
			return zero, zero, types.ErrArithmetic.Wrap("non-positive sqrt price")
		}
		liqDec := math.LegacyNewDecFromInt(liquidity)
		amount0 := liqDec.Quo(sqrtPrice).TruncateInt()
		amount1 := liqDec.Mul(sqrtPrice).TruncateInt()
		return amount0, amount1, nil
	}
}

// reconcileActiveLiquidity recomputes totalActiveLiquidity as the sum of all
// positions whose range contains the current price. Running it after every
// position mutation and price move keeps the aggregate from drifting.
func (k *Keeper) reconcileActiveLiquidity(pool *types.Pool) error {
	positions, err := k.getPoolPositions(pool.ID)
	if err != nil {
		return err
	}
	total := math.ZeroInt()
	for _, pos := range positions {
		if pool.ContainsPrice(pos.TickLower, pos.TickUpper) {
			total = total.Add(pos.Liquidity)
		}
	}
	pool.TotalActiveLiquidity = total
	return nil
}

// transfer moves tokens between two ledger accounts; zero amounts are a no-op.
func (k *Keeper) transfer(asset, from, to string, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := k.ledger.Debit(asset, from, amount); err != nil {
		return err
	}
	if err := k.ledger.Credit(asset, to, amount); err != nil {
		// Undo the debit so a failed credit cannot strand funds.
		_ = k.ledger.Credit(asset, from, amount)
		return err
	}
	return nil
}

func (k *Keeper) getPosition(poolID, owner string, tickLower, tickUpper int64) (types.Position, bool, error) {
	var pos types.Position
	found, err := k.getJSON(positionKey(poolID, owner, tickLower, tickUpper), &pos)
	return pos, found, err
}

func (k *Keeper) stagePosition(w *stagedWrites, pos types.Position) error {
	return w.setJSON(positionKey(pos.PoolID, pos.Owner, pos.TickLower, pos.TickUpper), pos)
}

func (k *Keeper) getPoolPositions(poolID string) ([]types.Position, error) {
	var positions []types.Position
	err := k.iteratePrefix(positionPoolPrefix(poolID), func(_, value []byte) (bool, error) {
		var pos types.Position
		if err := unmarshalRecord(value, &pos); err != nil {
			return true, err
		}
		positions = append(positions, pos)
		return false, nil
	})
	return positions, err
}

func (k *Keeper) getAllPositions() ([]types.Position, error) {
	var positions []types.Position
	err := k.iteratePrefix(positionKeyPrefix, func(_, value []byte) (bool, error) {
		var pos types.Position
		if err := unmarshalRecord(value, &pos); err != nil {
			return true, err
		}
		positions = append(positions, pos)
		return false, nil
	})
	return positions, err
}
