package types

import (
	"time"

	"cosmossdk.io/math"
)

// Ledger is the external token custody collaborator. Both operations are
// atomic and fail loudly (ErrInsufficientBalance) rather than partially
// transferring.
type Ledger interface {
	Debit(asset, from string, amount math.Int) error
	Credit(asset, to string, amount math.Int) error
	Balance(asset, account string) math.Int
}

// ProofVerifier validates cross-chain settlement proofs. The scheme is
// opaque to the engine; anything but true is treated as proof failure.
type ProofVerifier interface {
	Verify(swapHash string, proof []byte) bool
}

// BlockClock supplies the ambient execution height and time. The engine has
// no internal timers; deadlines are compared against this clock at call time.
type BlockClock interface {
	Height() int64
	Now() time.Time
}
