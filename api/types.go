package api

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// Request payloads. Amounts arrive as decimal strings so large balances do
// not lose precision in JSON numbers.

type createPoolRequest struct {
	Asset0       string `json:"asset0" binding:"required"`
	Asset1       string `json:"asset1" binding:"required"`
	FeeTierBps   uint32 `json:"fee_tier_bps" binding:"required"`
	InitialPrice string `json:"initial_price" binding:"required"`
}

type addLiquidityRequest struct {
	Owner          string `json:"owner" binding:"required"`
	TickLower      int64  `json:"tick_lower"`
	TickUpper      int64  `json:"tick_upper" binding:"required"`
	Amount0Desired string `json:"amount0_desired" binding:"required"`
	Amount1Desired string `json:"amount1_desired" binding:"required"`
}

type removeLiquidityRequest struct {
	Owner     string `json:"owner" binding:"required"`
	TickLower int64  `json:"tick_lower"`
	TickUpper int64  `json:"tick_upper" binding:"required"`
	Liquidity string `json:"liquidity" binding:"required"`
}

type swapRequest struct {
	Trader       string `json:"trader" binding:"required"`
	PoolID       string `json:"pool_id" binding:"required"`
	AssetIn      string `json:"asset_in" binding:"required"`
	AmountIn     string `json:"amount_in" binding:"required"`
	MinAmountOut string `json:"min_amount_out" binding:"required"`
}

type multiHopSwapRequest struct {
	Trader       string   `json:"trader" binding:"required"`
	Path         []string `json:"path" binding:"required"`
	FeeTiers     []uint32 `json:"fee_tiers" binding:"required"`
	AmountIn     string   `json:"amount_in" binding:"required"`
	MinAmountOut string   `json:"min_amount_out" binding:"required"`
}

type initiateCrossChainSwapRequest struct {
	Initiator          string `json:"initiator" binding:"required"`
	AssetIn            string `json:"asset_in" binding:"required"`
	AssetOut           string `json:"asset_out" binding:"required"`
	AmountIn           string `json:"amount_in" binding:"required"`
	ExpectedAmountOut  string `json:"expected_amount_out" binding:"required"`
	DestinationChainID string `json:"destination_chain_id" binding:"required"`
	DestinationAddress string `json:"destination_address" binding:"required"`
	Deadline           int64  `json:"deadline" binding:"required"`
}

type completeCrossChainSwapRequest struct {
	Proof string `json:"proof" binding:"required"`
}

type addLiquidityResponse struct {
	Liquidity string `json:"liquidity"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

type removeLiquidityResponse struct {
	Amount0 string `json:"amount0"`
	Amount1 string `json:"amount1"`
}

// parseInt parses a required positive-width integer amount field.
func parseInt(field, value string) (math.Int, error) {
	amount, ok := math.NewIntFromString(value)
	if !ok {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("%s: cannot parse %q", field, value)
	}
	return amount, nil
}

func parseDec(field, value string) (math.LegacyDec, error) {
	dec, err := math.LegacyNewDecFromStr(value)
	if err != nil {
		return math.LegacyDec{}, types.ErrInvalidAmount.Wrapf("%s: cannot parse %q: %v", field, value, err)
	}
	return dec, nil
}
