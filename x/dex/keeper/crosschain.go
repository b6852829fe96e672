package keeper

import (
	"encoding/binary"

	"cosmossdk.io/math"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// InitiateCrossChainSwap locks amountIn in module escrow and records the swap
// commitment. The returned hash is the handle for completion or refund.
func (k *Keeper) InitiateCrossChainSwap(initiator, assetIn, assetOut string, amountIn, expectedAmountOut math.Int, destChainID, destAddress string, deadline int64) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	// 1. Validate before locking anything
	if initiator == "" || destAddress == "" {
		return "", types.ErrInvalidAmount.Wrap("initiator and destination address required")
	}
	if assetIn == "" || assetOut == "" {
		return "", types.ErrInvalidAmount.Wrap("asset denoms required")
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return "", types.ErrInvalidAmount.Wrap("amount in must be positive")
	}
	if expectedAmountOut.IsNil() || !expectedAmountOut.IsPositive() {
		return "", types.ErrInvalidAmount.Wrap("expected amount out must be positive")
	}
	if destChainID == k.params.ChainID {
		return "", types.ErrSameChain.Wrapf("destination chain %s is the local chain", destChainID)
	}
	now := k.clock.Now().Unix()
	if deadline <= now {
		return "", types.ErrDeadlineInPast.Wrapf("deadline %d not after current time %d", deadline, now)
	}

	// 2. Derive the commitment identity
	sequence, err := k.swapSequence()
	if err != nil {
		return "", err
	}
	sequence++
	swapHash := types.NewSwapHash(initiator, assetIn, assetOut, amountIn, expectedAmountOut, destChainID, destAddress, deadline, sequence)

	// 3. Stage the sequence bump and the record in one batch
	w := k.newStagedWrites()
	defer w.close()
	if err := w.set(swapSequenceKey, swapSequenceBytes(sequence)); err != nil {
		return "", err
	}
	swap := types.CrossChainSwap{
		SwapHash:           swapHash,
		Initiator:          initiator,
		AssetIn:            assetIn,
		AssetOut:           assetOut,
		AmountIn:           amountIn,
		ExpectedAmountOut:  expectedAmountOut,
		DestinationChainID: destChainID,
		DestinationAddress: destAddress,
		Deadline:           deadline,
		CreatedAt:          now,
		CreatedHeight:      k.clock.Height(),
		Sequence:           sequence,
	}
	if err := w.setJSON(crossChainSwapKey(swapHash), swap); err != nil {
		return "", err
	}

	// 4. Lock funds in escrow, then flush; escrow unwinds if storage fails
	if err := k.transfer(assetIn, initiator, types.ModuleAccount, amountIn); err != nil {
		return "", err
	}
	if err := w.commit(); err != nil {
		_ = k.transfer(assetIn, types.ModuleAccount, initiator, amountIn)
		return "", err
	}

	k.logger.Info("cross-chain swap initiated",
		"swap_hash", swapHash,
		"initiator", initiator,
		"destination_chain", destChainID,
		"amount_in", amountIn.String(),
		"deadline", deadline,
	)
	if k.metrics != nil {
		k.metrics.CrossChainOps.WithLabelValues("initiate").Inc()
	}
	return swapHash, nil
}

// CompleteCrossChainSwap releases the expected output to the destination
// address against a valid settlement proof. A hash completes at most once and
// never after its deadline.
func (k *Keeper) CompleteCrossChainSwap(swapHash string, proof []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	swap, found, err := k.getCrossChainSwap(swapHash)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrSwapNotFound.Wrapf("cross-chain swap %s not found", swapHash)
	}
	if swap.Completed {
		return types.ErrAlreadyCompleted.Wrapf("swap %s already completed", swapHash)
	}
	if swap.Refunded {
		return types.ErrAlreadyCompleted.Wrapf("swap %s already refunded", swapHash)
	}
	if now := k.clock.Now().Unix(); now >= swap.Deadline {
		return types.ErrDeadlineExceeded.Wrapf("deadline %d passed at %d", swap.Deadline, now)
	}
	if !k.verifier.Verify(swapHash, proof) {
		if k.metrics != nil {
			k.metrics.CrossChainOps.WithLabelValues("invalid_proof").Inc()
		}
		return types.ErrInvalidProof.Wrapf("proof rejected for swap %s", swapHash)
	}

	if err := k.transfer(swap.AssetOut, types.ModuleAccount, swap.DestinationAddress, swap.ExpectedAmountOut); err != nil {
		return err
	}
	swap.Completed = true
	if err := k.setCrossChainSwap(swap); err != nil {
		// The release must not stand without its terminal record.
		_ = k.transfer(swap.AssetOut, swap.DestinationAddress, types.ModuleAccount, swap.ExpectedAmountOut)
		return err
	}

	k.logger.Info("cross-chain swap completed",
		"swap_hash", swapHash,
		"destination", swap.DestinationAddress,
		"amount_out", swap.ExpectedAmountOut.String(),
	)
	if k.metrics != nil {
		k.metrics.CrossChainOps.WithLabelValues("complete").Inc()
	}
	return nil
}

// RefundCrossChainSwap returns the escrowed input to the initiator. Refund is
// only available after the deadline, only if the swap never completed, and
// fires exactly once.
func (k *Keeper) RefundCrossChainSwap(swapHash string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	swap, found, err := k.getCrossChainSwap(swapHash)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrSwapNotFound.Wrapf("cross-chain swap %s not found", swapHash)
	}
	if swap.Completed {
		return types.ErrAlreadyCompleted.Wrapf("swap %s completed, nothing to refund", swapHash)
	}
	if swap.Refunded {
		return types.ErrRefundNotAvailable.Wrapf("swap %s already refunded", swapHash)
	}
	if now := k.clock.Now().Unix(); now < swap.Deadline {
		return types.ErrRefundNotAvailable.Wrapf("deadline %d not reached at %d", swap.Deadline, now)
	}

	if err := k.transfer(swap.AssetIn, types.ModuleAccount, swap.Initiator, swap.AmountIn); err != nil {
		return err
	}
	swap.Refunded = true
	if err := k.setCrossChainSwap(swap); err != nil {
		_ = k.transfer(swap.AssetIn, swap.Initiator, types.ModuleAccount, swap.AmountIn)
		return err
	}

	k.logger.Info("cross-chain swap refunded",
		"swap_hash", swapHash,
		"initiator", swap.Initiator,
		"amount_in", swap.AmountIn.String(),
	)
	if k.metrics != nil {
		k.metrics.CrossChainOps.WithLabelValues("refund").Inc()
	}
	return nil
}

// GetCrossChainSwap returns one cross-chain swap record.
func (k *Keeper) GetCrossChainSwap(swapHash string) (types.CrossChainSwap, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	swap, found, err := k.getCrossChainSwap(swapHash)
	if err != nil {
		return types.CrossChainSwap{}, err
	}
	if !found {
		return types.CrossChainSwap{}, types.ErrSwapNotFound.Wrapf("cross-chain swap %s not found", swapHash)
	}
	return swap, nil
}

// GetAllCrossChainSwaps returns every recorded cross-chain swap.
func (k *Keeper) GetAllCrossChainSwaps() ([]types.CrossChainSwap, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.getAllCrossChainSwaps()
}

func (k *Keeper) getCrossChainSwap(swapHash string) (types.CrossChainSwap, bool, error) {
	var swap types.CrossChainSwap
	found, err := k.getJSON(crossChainSwapKey(swapHash), &swap)
	return swap, found, err
}

func (k *Keeper) setCrossChainSwap(swap types.CrossChainSwap) error {
	return k.setJSON(crossChainSwapKey(swap.SwapHash), swap)
}

func (k *Keeper) getAllCrossChainSwaps() ([]types.CrossChainSwap, error) {
	var swaps []types.CrossChainSwap
	err := k.iteratePrefix(crossChainSwapKeyPrefix, func(_, value []byte) (bool, error) {
		var swap types.CrossChainSwap
		if err := unmarshalRecord(value, &swap); err != nil {
			return true, err
		}
		swaps = append(swaps, swap)
		return false, nil
	})
	return swaps, err
}

// swapSequence reads the monotonic initiation counter.
func (k *Keeper) swapSequence() (uint64, error) {
	bz, err := k.db.Get(swapSequenceKey)
	if err != nil {
		return 0, types.ErrStateCorruption.Wrapf("sequence read: %v", err)
	}
	if len(bz) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(bz), nil
}

func swapSequenceBytes(seq uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, seq)
	return bz
}
