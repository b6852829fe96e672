// Package ledger provides an in-memory token custody service implementing
// the engine's Ledger collaborator. Balances live entirely in process; a
// production deployment would back this with a bank module or chain client.
package ledger

import (
	"sync"

	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// InMemory is a thread-safe in-process ledger.
type InMemory struct {
	mu       sync.RWMutex
	balances map[string]map[string]math.Int // asset -> account -> balance
}

// NewInMemory creates an empty ledger.
func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[string]map[string]math.Int)}
}

// Mint credits freshly issued tokens to an account. Used to seed balances at
// startup and in tests; it is not part of the engine-facing interface.
func (l *InMemory) Mint(asset, account string, amount math.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(asset, account, amount)
}

// Debit removes tokens from an account, failing loudly when the balance is
// short. Partial transfers never happen.
func (l *InMemory) Debit(asset, from string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("debit amount %s", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balance(asset, from)
	if balance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf(
			"account %s holds %s %s, needs %s", from, balance, asset, amount)
	}
	l.balances[asset][from] = balance.Sub(amount)
	return nil
}

// Credit adds tokens to an account.
func (l *InMemory) Credit(asset, to string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("credit amount %s", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(asset, to, amount)
	return nil
}

// Balance returns the current balance of an account; unknown accounts hold
// zero.
func (l *InMemory) Balance(asset, account string) math.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance(asset, account)
}

func (l *InMemory) balance(asset, account string) math.Int {
	if accounts, ok := l.balances[asset]; ok {
		if bal, ok := accounts[account]; ok {
			return bal
		}
	}
	return math.ZeroInt()
}

func (l *InMemory) credit(asset, account string, amount math.Int) {
	if l.balances[asset] == nil {
		l.balances[asset] = make(map[string]math.Int)
	}
	l.balances[asset][account] = l.balance(asset, account).Add(amount)
}
