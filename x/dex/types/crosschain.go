package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"cosmossdk.io/math"
)

// CrossChainSwap is one lock -> proof -> release commitment. Funds are locked
// in the module escrow on initiation; Completed and Refunded are terminal and
// mutually exclusive.
type CrossChainSwap struct {
	SwapHash           string   `json:"swap_hash"`
	Initiator          string   `json:"initiator"`
	AssetIn            string   `json:"asset_in"`
	AssetOut           string   `json:"asset_out"`
	AmountIn           math.Int `json:"amount_in"`
	ExpectedAmountOut  math.Int `json:"expected_amount_out"`
	DestinationChainID string   `json:"destination_chain_id"`
	DestinationAddress string   `json:"destination_address"`

	// Deadline is a unix timestamp; Complete must land strictly before it,
	// Refund strictly after.
	Deadline int64 `json:"deadline"`

	Completed bool `json:"completed"`
	Refunded  bool `json:"refunded"`

	CreatedAt     int64  `json:"created_at"`
	CreatedHeight int64  `json:"created_height"`
	Sequence      uint64 `json:"sequence"`
}

// NewSwapHash derives the commitment identity. The sequence makes hashes
// unique across otherwise identical initiations.
func NewSwapHash(initiator, assetIn, assetOut string, amountIn, expectedOut math.Int, destChainID, destAddress string, deadline int64, sequence uint64) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%d|%d",
		initiator, assetIn, assetOut, amountIn, expectedOut, destChainID, destAddress, deadline, sequence)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Validate checks the structural commitment invariants.
func (s CrossChainSwap) Validate() error {
	if s.SwapHash == "" {
		return ErrInvalidPoolState.Wrap("cross-chain swap without hash")
	}
	if s.Initiator == "" || s.DestinationAddress == "" {
		return ErrInvalidPoolState.Wrap("cross-chain swap without parties")
	}
	if s.AssetIn == "" || s.AssetOut == "" {
		return ErrInvalidPoolState.Wrap("cross-chain swap without assets")
	}
	if s.AmountIn.IsNil() || !s.AmountIn.IsPositive() {
		return ErrInvalidAmount.Wrap("cross-chain swap amount must be positive")
	}
	if s.ExpectedAmountOut.IsNil() || !s.ExpectedAmountOut.IsPositive() {
		return ErrInvalidAmount.Wrap("expected amount out must be positive")
	}
	if s.Completed && s.Refunded {
		return ErrInvalidPoolState.Wrap("swap both completed and refunded")
	}
	return nil
}
