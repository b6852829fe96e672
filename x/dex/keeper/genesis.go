package keeper

import (
	"github.com/paw-chain/dexcore/x/dex/types"
)

// InitGenesis loads a previously exported state into an empty store.
func (k *Keeper) InitGenesis(gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}

	k.mu.Lock()
	err := func() error {
		// One batch for the whole import: a failed restore leaves the store
		// empty instead of half-loaded.
		w := k.newStagedWrites()
		defer w.close()

		for _, pool := range gs.Pools {
			if err := k.stagePool(w, pool); err != nil {
				return err
			}
			pairKey := poolByPairKey(pool.Asset0, pool.Asset1, pool.FeeTierBps)
			if err := w.set(pairKey, []byte(pool.ID)); err != nil {
				return err
			}
		}
		for _, pos := range gs.Positions {
			if err := k.stagePosition(w, pos); err != nil {
				return err
			}
		}
		for _, activity := range gs.TraderActivity {
			if err := w.setJSON(traderActivityKey(activity.Trader), activity); err != nil {
				return err
			}
		}
		for _, swap := range gs.CrossChainSwaps {
			if err := w.setJSON(crossChainSwapKey(swap.SwapHash), swap); err != nil {
				return err
			}
		}
		if err := w.set(swapSequenceKey, swapSequenceBytes(gs.SwapSequence)); err != nil {
			return err
		}
		return w.commit()
	}()
	k.mu.Unlock()
	if err != nil {
		return err
	}

	return k.CheckInvariants()
}

// ExportGenesis dumps the full engine state.
func (k *Keeper) ExportGenesis() (*types.GenesisState, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	pools, err := k.getAllPools()
	if err != nil {
		return nil, err
	}
	positions, err := k.getAllPositions()
	if err != nil {
		return nil, err
	}
	activity, err := k.getAllTraderActivity()
	if err != nil {
		return nil, err
	}
	swaps, err := k.getAllCrossChainSwaps()
	if err != nil {
		return nil, err
	}
	seq, err := k.swapSequence()
	if err != nil {
		return nil, err
	}
	return &types.GenesisState{
		Pools:           pools,
		Positions:       positions,
		TraderActivity:  activity,
		CrossChainSwaps: swaps,
		SwapSequence:    seq,
	}, nil
}
