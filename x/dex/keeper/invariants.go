package keeper

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// CheckInvariants verifies the structural invariants of the whole engine
// state. It is wired into genesis import and available to operators as a
// health probe; a violation indicates corrupted state, not a user error.
func (k *Keeper) CheckInvariants() error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	pools, err := k.getAllPools()
	if err != nil {
		return err
	}
	for _, pool := range pools {
		if err := pool.Validate(); err != nil {
			return types.ErrInvariantViolation.Wrapf("pool %s: %v", pool.ID, err)
		}

		positions, err := k.getPoolPositions(pool.ID)
		if err != nil {
			return err
		}
		active := math.ZeroInt()
		for _, pos := range positions {
			if err := pos.Validate(); err != nil {
				return types.ErrInvariantViolation.Wrapf(
					"position %s/%s [%d,%d): %v", pool.ID, pos.Owner, pos.TickLower, pos.TickUpper, err)
			}
			if pool.ContainsPrice(pos.TickLower, pos.TickUpper) {
				active = active.Add(pos.Liquidity)
			}
		}
		// totalActiveLiquidity must equal the sum over in-range positions.
		if !pool.TotalActiveLiquidity.Equal(active) {
			return types.ErrInvariantViolation.Wrapf(
				"pool %s active liquidity %s, in-range positions sum to %s",
				pool.ID, pool.TotalActiveLiquidity, active)
		}
	}

	swaps, err := k.getAllCrossChainSwaps()
	if err != nil {
		return err
	}
	seq, err := k.swapSequence()
	if err != nil {
		return err
	}
	for _, swap := range swaps {
		if err := swap.Validate(); err != nil {
			return types.ErrInvariantViolation.Wrapf("cross-chain swap %s: %v", swap.SwapHash, err)
		}
		if swap.Sequence > seq {
			return types.ErrInvariantViolation.Wrapf(
				"cross-chain swap %s sequence %d above counter %d", swap.SwapHash, swap.Sequence, seq)
		}
	}
	return nil
}
