package keeper

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// CreatePool registers a new pool for the canonicalized asset pair and fee
// tier. The pool starts inactive with empty reserves; the supplied initial
// price seeds tick-range accounting until the first deposit fixes the real
// spot price.
func (k *Keeper) CreatePool(asset0, asset1 string, feeTierBps uint32, initialPrice math.LegacyDec) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	// 1. Input validation before any state is touched
	if asset0 == asset1 {
		return "", types.ErrIdenticalAssets.Wrapf("cannot pool %s against itself", asset0)
	}
	if asset0 == "" || asset1 == "" {
		return "", types.ErrInvalidAmount.Wrap("empty asset denom")
	}
	if err := types.ValidateIdentifier(asset0); err != nil {
		return "", err
	}
	if err := types.ValidateIdentifier(asset1); err != nil {
		return "", err
	}
	if feeTierBps == 0 || feeTierBps >= 10_000 {
		return "", types.ErrInvalidAmount.Wrapf("fee tier %d bps out of range (0, 10000)", feeTierBps)
	}
	if initialPrice.IsNil() || !initialPrice.IsPositive() {
		return "", types.ErrInvalidAmount.Wrap("initial price must be positive")
	}

	// 2. Canonical ordering so (A,B) and (B,A) resolve to the same pool
	if asset0 > asset1 {
		asset0, asset1 = asset1, asset0
	}
	poolID := types.NewPoolID(asset0, asset1, feeTierBps)

	// 3. Duplicate check via the pair index
	pairKey := poolByPairKey(asset0, asset1, feeTierBps)
	existing, err := k.db.Has(pairKey)
	if err != nil {
		return "", types.ErrStateCorruption.Wrapf("pair index read: %v", err)
	}
	if existing {
		return "", types.ErrDuplicatePool.Wrapf("pool %s already exists for %s/%s fee %d", poolID, asset0, asset1, feeTierBps)
	}

	pool := types.Pool{
		ID:                   poolID,
		Asset0:               asset0,
		Asset1:               asset1,
		FeeTierBps:           feeTierBps,
		TickSpacing:          k.params.DefaultTickSpacing,
		Reserve0:             math.ZeroInt(),
		Reserve1:             math.ZeroInt(),
		TotalActiveLiquidity: math.ZeroInt(),
		Price:                initialPrice,
		Volume24h:            math.ZeroInt(),
		VolumeWindowStart:    k.clock.Now().Unix(),
		VolatilityEstimate:   math.LegacyZeroDec(),
		AccruedFees0:         math.ZeroInt(),
		AccruedFees1:         math.ZeroInt(),
		Active:               false,
	}

	// 4. Persist record and pair index in one batch
	w := k.newStagedWrites()
	defer w.close()
	if err := k.stagePool(w, pool); err != nil {
		return "", err
	}
	if err := w.set(pairKey, []byte(poolID)); err != nil {
		return "", err
	}
	if err := w.commit(); err != nil {
		return "", err
	}

	k.logger.Info("pool created",
		"pool_id", poolID,
		"asset0", asset0,
		"asset1", asset1,
		"fee_tier_bps", feeTierBps,
		"initial_price", initialPrice.String(),
	)
	if k.metrics != nil {
		k.metrics.PoolsCreated.Inc()
	}
	return poolID, nil
}

// GetPool returns the pool by its derived identifier.
func (k *Keeper) GetPool(poolID string) (types.Pool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.getPool(poolID)
}

// GetPoolByAssets resolves a pool from an unordered asset pair and fee tier.
func (k *Keeper) GetPoolByAssets(asset0, asset1 string, feeTierBps uint32) (types.Pool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.resolvePool(asset0, asset1, feeTierBps)
}

func (k *Keeper) resolvePool(asset0, asset1 string, feeTierBps uint32) (types.Pool, error) {
	if asset0 > asset1 {
		asset0, asset1 = asset1, asset0
	}
	bz, err := k.db.Get(poolByPairKey(asset0, asset1, feeTierBps))
	if err != nil {
		return types.Pool{}, types.ErrStateCorruption.Wrapf("pair index read: %v", err)
	}
	if bz == nil {
		return types.Pool{}, types.ErrPoolNotFound.Wrapf("no pool for %s/%s fee %d", asset0, asset1, feeTierBps)
	}
	return k.getPool(string(bz))
}

// GetAllPools returns every registered pool.
func (k *Keeper) GetAllPools() ([]types.Pool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.getAllPools()
}

func (k *Keeper) getPool(poolID string) (types.Pool, error) {
	var pool types.Pool
	found, err := k.getJSON(poolKey(poolID), &pool)
	if err != nil {
		return types.Pool{}, err
	}
	if !found {
		return types.Pool{}, types.ErrPoolNotFound.Wrapf("pool %s not found", poolID)
	}
	return pool, nil
}

func (k *Keeper) stagePool(w *stagedWrites, pool types.Pool) error {
	return w.setJSON(poolKey(pool.ID), pool)
}

func (k *Keeper) getAllPools() ([]types.Pool, error) {
	var pools []types.Pool
	err := k.iteratePrefix(poolKeyPrefix, func(_, value []byte) (bool, error) {
		var pool types.Pool
		if err := unmarshalRecord(value, &pool); err != nil {
			return true, err
		}
		pools = append(pools, pool)
		return false, nil
	})
	return pools, err
}
