package types

import (
	"cosmossdk.io/math"
)

// Position is a concentrated-liquidity deposit bounded by a tick range.
// The (owner, tickLower, tickUpper) triple is the position key within a
// pool: repeat deposits to the same key grow the same position.
type Position struct {
	Owner     string `json:"owner"`
	PoolID    string `json:"pool_id"`
	TickLower int64  `json:"tick_lower"`
	TickUpper int64  `json:"tick_upper"`

	Liquidity math.Int `json:"liquidity"`

	// Owed amounts accrue from swap fees and only ever decrease through
	// withdrawal.
	OwedAmount0 math.Int `json:"owed_amount0"`
	OwedAmount1 math.Int `json:"owed_amount1"`

	CreatedAt int64 `json:"created_at"`
}

// Validate checks the structural position invariants.
func (p Position) Validate() error {
	if p.Owner == "" {
		return ErrInvalidPoolState.Wrap("position without owner")
	}
	if p.PoolID == "" {
		return ErrInvalidPoolState.Wrap("position without pool id")
	}
	if p.TickLower >= p.TickUpper {
		return ErrInvalidRange.Wrapf("tickLower %d >= tickUpper %d", p.TickLower, p.TickUpper)
	}
	if p.Liquidity.IsNil() || p.Liquidity.IsNegative() {
		return ErrInvalidPoolState.Wrap("negative or nil position liquidity")
	}
	if p.OwedAmount0.IsNil() || p.OwedAmount0.IsNegative() ||
		p.OwedAmount1.IsNil() || p.OwedAmount1.IsNegative() {
		return ErrInvalidPoolState.Wrap("negative or nil owed amount")
	}
	return nil
}

// ValidateRange checks a requested tick range against a pool's spacing.
// Rejected before any state is touched.
func ValidateRange(tickLower, tickUpper, tickSpacing int64) error {
	if tickLower >= tickUpper {
		return ErrInvalidRange.Wrapf("tickLower %d must be below tickUpper %d", tickLower, tickUpper)
	}
	if tickLower < 0 {
		return ErrInvalidRange.Wrapf("tickLower %d must not be negative", tickLower)
	}
	if tickLower%tickSpacing != 0 || tickUpper%tickSpacing != 0 {
		return ErrInvalidRange.Wrapf("ticks must align to spacing %d", tickSpacing)
	}
	return nil
}
