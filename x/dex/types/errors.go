package types

import (
	"cosmossdk.io/errors"
)

// DEX engine sentinel errors
var (
	ErrIdenticalAssets               = errors.Register(ModuleName, 1, "identical assets")
	ErrDuplicatePool                 = errors.Register(ModuleName, 2, "pool already exists")
	ErrPoolNotFound                  = errors.Register(ModuleName, 3, "pool not found")
	ErrInactivePool                  = errors.Register(ModuleName, 4, "pool is not active")
	ErrInvalidRange                  = errors.Register(ModuleName, 5, "invalid tick range")
	ErrInvalidPath                   = errors.Register(ModuleName, 6, "invalid swap path")
	ErrDeadlineInPast                = errors.Register(ModuleName, 7, "deadline is in the past")
	ErrNotOwner                      = errors.Register(ModuleName, 8, "caller is not the position owner")
	ErrAlreadyCompleted              = errors.Register(ModuleName, 9, "cross-chain swap already completed")
	ErrSlippageExceeded              = errors.Register(ModuleName, 10, "output amount less than minimum required")
	ErrExcessivePriceImpact          = errors.Register(ModuleName, 11, "price impact exceeds maximum")
	ErrInsufficientPositionLiquidity = errors.Register(ModuleName, 12, "insufficient position liquidity")
	ErrInsufficientBalance           = errors.Register(ModuleName, 13, "insufficient balance")
	ErrMEVDetected                   = errors.Register(ModuleName, 14, "suspicious trading cadence detected")
	ErrInvalidProof                  = errors.Register(ModuleName, 15, "invalid settlement proof")
	ErrArithmetic                    = errors.Register(ModuleName, 16, "arithmetic error")
	ErrInvalidAmount                 = errors.Register(ModuleName, 17, "invalid amount")
	ErrSameChain                     = errors.Register(ModuleName, 18, "destination chain equals local chain")
	ErrDeadlineExceeded              = errors.Register(ModuleName, 19, "deadline exceeded")
	ErrSwapNotFound                  = errors.Register(ModuleName, 20, "cross-chain swap not found")
	ErrInvalidPoolState              = errors.Register(ModuleName, 21, "invalid pool state")
	ErrInvariantViolation            = errors.Register(ModuleName, 22, "pool invariant violation")
	ErrStateCorruption               = errors.Register(ModuleName, 23, "state corruption detected")
	ErrRefundNotAvailable            = errors.Register(ModuleName, 24, "refund not available")
	ErrInvalidIdentifier             = errors.Register(ModuleName, 25, "invalid identifier")
)
