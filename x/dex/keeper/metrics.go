package keeper

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes engine counters to prometheus. A nil *Metrics on the keeper
// disables instrumentation, which keeps tests free of registry collisions.
type Metrics struct {
	PoolsCreated  prometheus.Counter
	SwapsTotal    *prometheus.CounterVec
	SwapVolume    prometheus.Counter
	LiquidityOps  *prometheus.CounterVec
	MEVRejections *prometheus.CounterVec
	CrossChainOps *prometheus.CounterVec
}

// NewMetrics registers the engine metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PoolsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dexcore",
			Name:      "pools_created_total",
			Help:      "Number of pools created since start.",
		}),
		SwapsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexcore",
			Name:      "swaps_total",
			Help:      "Number of executed swaps by kind.",
		}, []string{"kind"}),
		SwapVolume: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dexcore",
			Name:      "swap_volume_total",
			Help:      "Cumulative swap input volume in base units.",
		}),
		LiquidityOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexcore",
			Name:      "liquidity_operations_total",
			Help:      "Number of liquidity operations by direction.",
		}, []string{"op"}),
		MEVRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexcore",
			Name:      "mev_rejections_total",
			Help:      "Number of trades rejected by the MEV guard, by reason.",
		}, []string{"reason"}),
		CrossChainOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dexcore",
			Name:      "cross_chain_operations_total",
			Help:      "Number of cross-chain swap lifecycle events.",
		}, []string{"op"}),
	}
}

// observeSwapVolume adds a swap's input amount to the volume counter. Amounts
// for high-decimal assets routinely exceed int64, so the conversion goes
// through big.Float rather than Int64.
func (m *Metrics) observeSwapVolume(amountIn math.Int) {
	f, _ := new(big.Float).SetInt(amountIn.BigInt()).Float64()
	m.SwapVolume.Add(f)
}
