package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Fee model identifiers. The set is closed: every pool prices swaps through
// exactly one of these strategies.
const (
	FeeModelVolatility = "volatility"
	FeeModelStatic     = "static"
)

// Params holds the engine-wide parameters. They are supplied by the host
// configuration at startup; there is no on-line governance path.
type Params struct {
	// ChainID identifies the local chain for cross-chain swap validation.
	ChainID string `json:"chain_id"`

	// FeeModel selects the pricing strategy: "volatility" or "static".
	FeeModel string `json:"fee_model"`

	// MaxFee is the hard ceiling on the effective swap fee.
	MaxFee math.LegacyDec `json:"max_fee"`

	// VolumeDiscount is applied to the fee when volume24h exceeds
	// HighVolumeThreshold.
	VolumeDiscount      math.LegacyDec `json:"volume_discount"`
	HighVolumeThreshold math.Int       `json:"high_volume_threshold"`

	// MaxPriceImpact bounds the fraction of the output reserve a single swap
	// may consume; output beyond it is clamped down.
	MaxPriceImpact math.LegacyDec `json:"max_price_impact"`

	// MaxPoolDrainPercent is the outer bound: a swap whose raw output exceeds
	// this fraction of the output reserve is rejected outright.
	MaxPoolDrainPercent math.LegacyDec `json:"max_pool_drain_percent"`

	// VolatilityDecay is the EWMA retention factor for the per-pool
	// volatility estimate.
	VolatilityDecay math.LegacyDec `json:"volatility_decay"`

	// MaxSwapHops bounds multi-hop route length.
	MaxSwapHops int `json:"max_swap_hops"`

	// MEV guard thresholds.
	MaxTradesPerBlock     int64          `json:"max_trades_per_block"`
	MaxUnusualVolumeFlags int64          `json:"max_unusual_volume_flags"`
	UnusualVolumeRatio    math.LegacyDec `json:"unusual_volume_ratio"`

	// DefaultTickSpacing is assigned to newly created pools.
	DefaultTickSpacing int64 `json:"default_tick_spacing"`

	// MinLiquidity is the smallest position liquidity accepted on deposit.
	MinLiquidity math.Int `json:"min_liquidity"`
}

// DefaultParams returns the default engine parameters.
func DefaultParams() Params {
	return Params{
		ChainID:               "dexcore-1",
		FeeModel:              FeeModelVolatility,
		MaxFee:                math.LegacyNewDecWithPrec(1, 2),  // 1%
		VolumeDiscount:        math.LegacyNewDecWithPrec(8, 1),  // 0.8
		HighVolumeThreshold:   math.NewInt(1_000_000_000),
		MaxPriceImpact:        math.LegacyNewDecWithPrec(5, 2),  // 5%
		MaxPoolDrainPercent:   math.LegacyNewDecWithPrec(30, 2), // 30% of reserves
		VolatilityDecay:       math.LegacyNewDecWithPrec(9, 1),  // 0.9
		MaxSwapHops:           4,
		MaxTradesPerBlock:     2,
		MaxUnusualVolumeFlags: 5,
		UnusualVolumeRatio:    math.LegacyNewDecWithPrec(1, 1), // 10% of reserve
		DefaultTickSpacing:    10,
		MinLiquidity:          math.NewInt(1000),
	}
}

// Validate validates the set of params.
func (p Params) Validate() error {
	if p.ChainID == "" {
		return fmt.Errorf("chain id cannot be empty")
	}
	if p.FeeModel != FeeModelVolatility && p.FeeModel != FeeModelStatic {
		return fmt.Errorf("unknown fee model %q", p.FeeModel)
	}
	if p.MaxFee.IsNil() || p.MaxFee.IsNegative() || p.MaxFee.GTE(math.LegacyOneDec()) {
		return fmt.Errorf("max fee must be in [0, 1): %s", p.MaxFee)
	}
	if p.VolumeDiscount.IsNil() || !p.VolumeDiscount.IsPositive() || p.VolumeDiscount.GT(math.LegacyOneDec()) {
		return fmt.Errorf("volume discount must be in (0, 1]: %s", p.VolumeDiscount)
	}
	if p.HighVolumeThreshold.IsNil() || p.HighVolumeThreshold.IsNegative() {
		return fmt.Errorf("high volume threshold cannot be negative")
	}
	if p.MaxPriceImpact.IsNil() || !p.MaxPriceImpact.IsPositive() || p.MaxPriceImpact.GT(math.LegacyOneDec()) {
		return fmt.Errorf("max price impact must be in (0, 1]: %s", p.MaxPriceImpact)
	}
	if p.MaxPoolDrainPercent.IsNil() || p.MaxPoolDrainPercent.LT(p.MaxPriceImpact) || p.MaxPoolDrainPercent.GT(math.LegacyOneDec()) {
		return fmt.Errorf("max pool drain must be in [maxPriceImpact, 1]: %s", p.MaxPoolDrainPercent)
	}
	if p.VolatilityDecay.IsNil() || p.VolatilityDecay.IsNegative() || p.VolatilityDecay.GTE(math.LegacyOneDec()) {
		return fmt.Errorf("volatility decay must be in [0, 1): %s", p.VolatilityDecay)
	}
	if p.MaxSwapHops < 1 {
		return fmt.Errorf("max swap hops must be at least 1")
	}
	if p.MaxTradesPerBlock < 1 {
		return fmt.Errorf("max trades per block must be at least 1")
	}
	if p.MaxUnusualVolumeFlags < 1 {
		return fmt.Errorf("max unusual volume flags must be at least 1")
	}
	if p.UnusualVolumeRatio.IsNil() || !p.UnusualVolumeRatio.IsPositive() {
		return fmt.Errorf("unusual volume ratio must be positive")
	}
	if p.DefaultTickSpacing < 1 {
		return fmt.Errorf("default tick spacing must be at least 1")
	}
	if p.MinLiquidity.IsNil() || p.MinLiquidity.IsNegative() {
		return fmt.Errorf("min liquidity cannot be negative")
	}
	return nil
}
