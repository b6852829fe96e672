package types

import (
	"cosmossdk.io/math"
)

// SwapResult reports the outcome of a single-pool swap.
type SwapResult struct {
	PoolID      string         `json:"pool_id"`
	AssetIn     string         `json:"asset_in"`
	AssetOut    string         `json:"asset_out"`
	AmountIn    math.Int       `json:"amount_in"`
	AmountOut   math.Int       `json:"amount_out"`
	Fee         math.LegacyDec `json:"fee"`
	FeeAmount   math.Int       `json:"fee_amount"`
	PriceImpact math.LegacyDec `json:"price_impact"`
	NewPrice    math.LegacyDec `json:"new_price"`
}

// RouteResult reports the outcome of a multi-hop swap.
type RouteResult struct {
	Path       []string   `json:"path"`
	AmountIn   math.Int   `json:"amount_in"`
	AmountOut  math.Int   `json:"amount_out"`
	HopAmounts []math.Int `json:"hop_amounts"`
	TotalFees  math.Int   `json:"total_fees"`
}

// QuoteResult is the read-only pricing of a route; producing one never
// mutates engine state.
type QuoteResult struct {
	AmountOut   math.Int       `json:"amount_out"`
	PriceImpact math.LegacyDec `json:"price_impact"`
}
