package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"cosmossdk.io/math"
)

// tickScale is the number of price decimals one tick represents: tick t maps
// to a price of t * 10^-4 asset1 per asset0. Ticks are plain discretized
// price coordinates, not log-space indices.
const tickScale = 4

// NewPoolID derives the canonical pool identity from an unordered asset pair
// and a fee tier. The pair is normalized before hashing, so
// NewPoolID(a, b, f) == NewPoolID(b, a, f) for all pairs.
func NewPoolID(asset0, asset1 string, feeTierBps uint32) string {
	if asset0 > asset1 {
		asset0, asset1 = asset1, asset0
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", asset0, asset1, feeTierBps)))
	return hex.EncodeToString(sum[:16])
}

// Pool is a single trading pair at one fee tier. Reserves are held by the
// module's ledger account; price is quoted as asset1 per asset0.
type Pool struct {
	ID          string `json:"id"`
	Asset0      string `json:"asset0"`
	Asset1      string `json:"asset1"`
	FeeTierBps  uint32 `json:"fee_tier_bps"`
	TickSpacing int64  `json:"tick_spacing"`

	Reserve0             math.Int       `json:"reserve0"`
	Reserve1             math.Int       `json:"reserve1"`
	TotalActiveLiquidity math.Int       `json:"total_active_liquidity"`
	Price                math.LegacyDec `json:"price"`

	Volume24h          math.Int       `json:"volume_24h"`
	VolumeWindowStart  int64          `json:"volume_window_start"`
	VolatilityEstimate math.LegacyDec `json:"volatility_estimate"`

	AccruedFees0 math.Int `json:"accrued_fees0"`
	AccruedFees1 math.Int `json:"accrued_fees1"`

	Active bool `json:"active"`
}

// BaseFee returns the pool's fee tier as a decimal fraction.
func (p Pool) BaseFee() math.LegacyDec {
	return math.LegacyNewDec(int64(p.FeeTierBps)).QuoInt64(10_000)
}

// CurrentTick returns the discretized coordinate of the pool price.
func (p Pool) CurrentTick() int64 {
	return p.Price.MulInt64(10_000).TruncateInt64()
}

// ContainsPrice reports whether the pool price lies inside [tickLower,
// tickUpper). Positions in this range are active and earn fees.
func (p Pool) ContainsPrice(tickLower, tickUpper int64) bool {
	tick := p.CurrentTick()
	return tick >= tickLower && tick < tickUpper
}

// TickToPrice converts a tick coordinate to its fixed-point price.
func TickToPrice(tick int64) math.LegacyDec {
	return math.LegacyNewDecWithPrec(tick, tickScale)
}

// Validate checks the structural pool invariants. An active pool must hold
// positive reserves on both sides and a positive price.
func (p Pool) Validate() error {
	if p.ID == "" {
		return ErrInvalidPoolState.Wrap("empty pool id")
	}
	if p.Asset0 == "" || p.Asset1 == "" {
		return ErrInvalidPoolState.Wrap("empty asset denom")
	}
	if p.Asset0 >= p.Asset1 {
		return ErrInvalidPoolState.Wrapf("assets not canonically ordered: %s/%s", p.Asset0, p.Asset1)
	}
	if p.TickSpacing < 1 {
		return ErrInvalidPoolState.Wrap("tick spacing must be positive")
	}
	if p.Reserve0.IsNil() || p.Reserve1.IsNil() || p.Reserve0.IsNegative() || p.Reserve1.IsNegative() {
		return ErrInvalidPoolState.Wrap("negative or nil reserve")
	}
	if p.TotalActiveLiquidity.IsNil() || p.TotalActiveLiquidity.IsNegative() {
		return ErrInvalidPoolState.Wrap("negative or nil active liquidity")
	}
	if p.Price.IsNil() || !p.Price.IsPositive() {
		return ErrInvalidPoolState.Wrap("price must be positive")
	}
	if p.Active && (p.Reserve0.IsZero() || p.Reserve1.IsZero()) {
		return ErrInvalidPoolState.Wrap("active pool with empty reserve")
	}
	return nil
}

// ReservesFor resolves swap direction: it returns the in/out reserves for a
// given input asset and whether the input is asset0.
func (p Pool) ReservesFor(assetIn string) (reserveIn, reserveOut math.Int, assetOut string, zeroForOne bool, err error) {
	switch assetIn {
	case p.Asset0:
		return p.Reserve0, p.Reserve1, p.Asset1, true, nil
	case p.Asset1:
		return p.Reserve1, p.Reserve0, p.Asset0, false, nil
	default:
		return math.Int{}, math.Int{}, "", false, ErrInvalidPath.Wrapf(
			"asset %s not in pool %s (%s/%s)", assetIn, p.ID, p.Asset0, p.Asset1)
	}
}

// SpotPrice recomputes the asset1-per-asset0 price from current reserves.
func (p Pool) SpotPrice() (math.LegacyDec, error) {
	if p.Reserve0.IsZero() {
		return math.LegacyZeroDec(), ErrArithmetic.Wrap("spot price: zero reserve0")
	}
	return math.LegacyNewDecFromInt(p.Reserve1).Quo(math.LegacyNewDecFromInt(p.Reserve0)), nil
}
