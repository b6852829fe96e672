package types

// GenesisState is the full exportable engine state.
type GenesisState struct {
	Pools           []Pool           `json:"pools"`
	Positions       []Position       `json:"positions"`
	TraderActivity  []TraderActivity `json:"trader_activity"`
	CrossChainSwaps []CrossChainSwap `json:"cross_chain_swaps"`
	SwapSequence    uint64           `json:"swap_sequence"`
}

// DefaultGenesis returns an empty genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{}
}

// Validate performs basic genesis validation.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Pools))
	for _, pool := range gs.Pools {
		if _, ok := seen[pool.ID]; ok {
			return ErrDuplicatePool.Wrapf("duplicate pool %s in genesis", pool.ID)
		}
		seen[pool.ID] = struct{}{}
		if err := pool.Validate(); err != nil {
			return err
		}
	}
	for _, pos := range gs.Positions {
		if err := pos.Validate(); err != nil {
			return err
		}
		if _, ok := seen[pos.PoolID]; !ok {
			return ErrPoolNotFound.Wrapf("position references unknown pool %s", pos.PoolID)
		}
	}
	for _, swap := range gs.CrossChainSwaps {
		if err := swap.Validate(); err != nil {
			return err
		}
	}
	return nil
}
