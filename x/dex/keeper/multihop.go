package keeper

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// SwapExactInputMultiHop routes a swap across consecutive pools in path,
// feeding each hop's output into the next. All hops are staged against pool
// copies first; tokens move and state commits only once every hop has priced
// successfully, so a failing hop aborts the route with no observable change.
// The MEV guard is consulted once for the whole route, not per hop.
func (k *Keeper) SwapExactInputMultiHop(trader string, path []string, feeTiers []uint32, amountIn, minAmountOut math.Int) (types.RouteResult, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	// 1. Validate the route shape
	if err := validateRoute(path, feeTiers, k.params.MaxSwapHops); err != nil {
		return types.RouteResult{}, err
	}
	if err := validateSwapAmounts(amountIn, minAmountOut); err != nil {
		return types.RouteResult{}, err
	}

	// 2. One guard check for the whole route
	if err := k.authorizeTrade(trader); err != nil {
		return types.RouteResult{}, err
	}

	// 3. Stage every hop against shared pool copies
	stages, staged, hopAmounts, amountOut, totalFees, err := k.stageRoute(trader, path, feeTiers, amountIn)
	if err != nil {
		return types.RouteResult{}, err
	}
	if amountOut.LT(minAmountOut) {
		return types.RouteResult{}, types.ErrSlippageExceeded.Wrapf(
			"route output %s below minimum %s", amountOut, minAmountOut)
	}

	// 4. Stage the commit for every touched pool, grouping each pool's hops
	// so fees on a revisited pool accumulate.
	w := k.newStagedWrites()
	defer w.close()
	hopsByPool := make(map[string][]swapStage, len(staged))
	for _, stage := range stages {
		hopsByPool[stage.result.PoolID] = append(hopsByPool[stage.result.PoolID], stage)
	}
	for id, pool := range staged {
		if err := k.stageCommit(w, pool, hopsByPool[id]...); err != nil {
			return types.RouteResult{}, err
		}
	}

	// 5. Move tokens: only the endpoints touch the trader, intermediate
	// hops net out inside module custody.
	assetIn, assetOut := path[0], path[len(path)-1]
	if err := k.transfer(assetIn, trader, types.ModuleAccount, amountIn); err != nil {
		return types.RouteResult{}, err
	}
	if err := k.transfer(assetOut, types.ModuleAccount, trader, amountOut); err != nil {
		_ = k.transfer(assetIn, types.ModuleAccount, trader, amountIn)
		return types.RouteResult{}, err
	}

	// 6. Flush the staged writes in one batch; tokens go back if storage fails
	if err := w.commit(); err != nil {
		_ = k.transfer(assetOut, trader, types.ModuleAccount, amountOut)
		_ = k.transfer(assetIn, types.ModuleAccount, trader, amountIn)
		return types.RouteResult{}, err
	}

	k.logger.Info("multi-hop swap executed",
		"trader", trader,
		"hops", len(path)-1,
		"asset_in", assetIn,
		"asset_out", assetOut,
		"amount_in", amountIn.String(),
		"amount_out", amountOut.String(),
	)
	if k.metrics != nil {
		k.metrics.SwapsTotal.WithLabelValues("multihop").Inc()
		k.metrics.observeSwapVolume(amountIn)
	}
	return types.RouteResult{
		Path:       path,
		AmountIn:   amountIn,
		AmountOut:  amountOut,
		HopAmounts: hopAmounts,
		TotalFees:  totalFees,
	}, nil
}

// Quote prices a route without mutating any state.
func (k *Keeper) Quote(path []string, feeTiers []uint32, amountIn math.Int) (types.QuoteResult, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if err := validateRoute(path, feeTiers, k.params.MaxSwapHops); err != nil {
		return types.QuoteResult{}, err
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return types.QuoteResult{}, types.ErrInvalidAmount.Wrap("amount in must be positive")
	}

	stages, _, _, amountOut, _, err := k.stageRoute("", path, feeTiers, amountIn)
	if err != nil {
		return types.QuoteResult{}, err
	}

	// Cumulative impact across hops: 1 - prod(1 - impact_i).
	retained := math.LegacyOneDec()
	for _, stage := range stages {
		retained = retained.Mul(math.LegacyOneDec().Sub(stage.result.PriceImpact))
	}
	return types.QuoteResult{
		AmountOut:   amountOut,
		PriceImpact: math.LegacyOneDec().Sub(retained),
	}, nil
}

// stageRoute prices every hop against staged pool copies. Copies are shared
// per pool so a path that revisits a pool prices against its updated state.
func (k *Keeper) stageRoute(trader string, path []string, feeTiers []uint32, amountIn math.Int) ([]swapStage, map[string]*types.Pool, []math.Int, math.Int, math.Int, error) {
	staged := make(map[string]*types.Pool, len(feeTiers))
	stages := make([]swapStage, 0, len(feeTiers))
	hopAmounts := make([]math.Int, 0, len(feeTiers))
	totalFees := math.ZeroInt()

	hopIn := amountIn
	for i := 0; i < len(path)-1; i++ {
		pool, err := k.resolvePool(path[i], path[i+1], feeTiers[i])
		if err != nil {
			return nil, nil, nil, math.Int{}, math.Int{}, err
		}
		hopPool, ok := staged[pool.ID]
		if !ok {
			copied := pool
			hopPool = &copied
			staged[pool.ID] = hopPool
		}

		stage, err := k.stageSwap(hopPool, trader, path[i], hopIn)
		if err != nil {
			return nil, nil, nil, math.Int{}, math.Int{}, err
		}
		stages = append(stages, stage)
		hopAmounts = append(hopAmounts, stage.result.AmountOut)
		totalFees = totalFees.Add(stage.feeAmount)
		hopIn = stage.result.AmountOut
	}
	return stages, staged, hopAmounts, hopIn, totalFees, nil
}

func validateRoute(path []string, feeTiers []uint32, maxHops int) error {
	if len(path) < 2 {
		return types.ErrInvalidPath.Wrapf("path needs at least 2 assets, got %d", len(path))
	}
	if len(feeTiers) != len(path)-1 {
		return types.ErrInvalidPath.Wrapf(
			"need %d fee tiers for %d assets, got %d", len(path)-1, len(path), len(feeTiers))
	}
	if len(path)-1 > maxHops {
		return types.ErrInvalidPath.Wrapf("%d hops exceeds limit %d", len(path)-1, maxHops)
	}
	for i := 0; i < len(path)-1; i++ {
		if path[i] == path[i+1] {
			return types.ErrInvalidPath.Wrapf("consecutive identical asset %s at hop %d", path[i], i)
		}
	}
	for _, asset := range path {
		if err := types.ValidateIdentifier(asset); err != nil {
			return types.ErrInvalidPath.Wrapf("asset %q: %v", asset, err)
		}
	}
	return nil
}
