package types

// TraderActivity is the per-trader MEV guard state. It is created lazily on
// the first trade and never destroyed; the in-block counter decays implicitly
// because it resets whenever LastTradeBlock changes.
type TraderActivity struct {
	Trader                   string `json:"trader"`
	LastTradeBlock           int64  `json:"last_trade_block"`
	ConsecutiveTradesInBlock int64  `json:"consecutive_trades_in_block"`
	UnusualVolumeCounter     int64  `json:"unusual_volume_counter"`
}

// MEVCheck is the evaluation of one trade attempt against the guard. The
// guard is a heuristic bound on abusive cadence, not a proof system.
type MEVCheck struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
