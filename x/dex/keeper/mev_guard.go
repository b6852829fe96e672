package keeper

import (
	"github.com/paw-chain/dexcore/x/dex/types"
)

// authorizeTrade runs the per-trader MEV heuristic for one swap attempt. The
// cadence counter is updated and persisted before the decision, so rejected
// attempts still count against the trader's block budget.
func (k *Keeper) authorizeTrade(trader string) error {
	if trader == "" {
		return types.ErrInvalidAmount.Wrap("empty trader address")
	}
	if err := types.ValidateIdentifier(trader); err != nil {
		return err
	}

	activity, found, err := k.getTraderActivity(trader)
	if err != nil {
		return err
	}
	if !found {
		activity = types.TraderActivity{Trader: trader}
	}

	height := k.clock.Height()
	if activity.LastTradeBlock == height {
		activity.ConsecutiveTradesInBlock++
	} else {
		activity.LastTradeBlock = height
		activity.ConsecutiveTradesInBlock = 1
	}
	if err := k.setTraderActivity(activity); err != nil {
		return err
	}

	if activity.ConsecutiveTradesInBlock > k.params.MaxTradesPerBlock {
		if k.metrics != nil {
			k.metrics.MEVRejections.WithLabelValues("trade_cadence").Inc()
		}
		k.logger.Warn("trade rejected by MEV guard",
			"trader", trader,
			"height", height,
			"trades_in_block", activity.ConsecutiveTradesInBlock,
		)
		return types.ErrMEVDetected.Wrapf(
			"%d trades in block %d exceeds limit %d",
			activity.ConsecutiveTradesInBlock, height, k.params.MaxTradesPerBlock)
	}
	if activity.UnusualVolumeCounter > k.params.MaxUnusualVolumeFlags {
		if k.metrics != nil {
			k.metrics.MEVRejections.WithLabelValues("unusual_volume").Inc()
		}
		k.logger.Warn("trade rejected by MEV guard",
			"trader", trader,
			"unusual_volume_flags", activity.UnusualVolumeCounter,
		)
		return types.ErrMEVDetected.Wrapf(
			"%d unusual volume flags exceeds limit %d",
			activity.UnusualVolumeCounter, k.params.MaxUnusualVolumeFlags)
	}
	return nil
}

// flagUnusualVolume increments the trader's unusual-volume counter. The flag
// is sticky; it gates future trades through authorizeTrade.
func (k *Keeper) flagUnusualVolume(trader string) error {
	activity, found, err := k.getTraderActivity(trader)
	if err != nil {
		return err
	}
	if !found {
		activity = types.TraderActivity{Trader: trader}
	}
	activity.UnusualVolumeCounter++
	return k.setTraderActivity(activity)
}

// CheckTrade evaluates the guard for a trader without recording an attempt.
func (k *Keeper) CheckTrade(trader string) (types.MEVCheck, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	activity, found, err := k.getTraderActivity(trader)
	if err != nil {
		return types.MEVCheck{}, err
	}
	if !found {
		return types.MEVCheck{Allowed: true}, nil
	}
	trades := activity.ConsecutiveTradesInBlock
	if activity.LastTradeBlock != k.clock.Height() {
		trades = 0
	}
	if trades+1 > k.params.MaxTradesPerBlock {
		return types.MEVCheck{Allowed: false, Reason: "trade cadence limit reached"}, nil
	}
	if activity.UnusualVolumeCounter > k.params.MaxUnusualVolumeFlags {
		return types.MEVCheck{Allowed: false, Reason: "unusual volume flags exceeded"}, nil
	}
	return types.MEVCheck{Allowed: true}, nil
}

// GetTraderActivity returns the guard state for one trader; traders with no
// history get a zero-valued record.
func (k *Keeper) GetTraderActivity(trader string) (types.TraderActivity, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	activity, found, err := k.getTraderActivity(trader)
	if err != nil {
		return types.TraderActivity{}, err
	}
	if !found {
		return types.TraderActivity{Trader: trader}, nil
	}
	return activity, nil
}

func (k *Keeper) getTraderActivity(trader string) (types.TraderActivity, bool, error) {
	var activity types.TraderActivity
	found, err := k.getJSON(traderActivityKey(trader), &activity)
	return activity, found, err
}

func (k *Keeper) setTraderActivity(activity types.TraderActivity) error {
	return k.setJSON(traderActivityKey(activity.Trader), activity)
}

func (k *Keeper) getAllTraderActivity() ([]types.TraderActivity, error) {
	var activities []types.TraderActivity
	err := k.iteratePrefix(traderActivityKeyPrefix, func(_, value []byte) (bool, error) {
		var activity types.TraderActivity
		if err := unmarshalRecord(value, &activity); err != nil {
			return true, err
		}
		activities = append(activities, activity)
		return false, nil
	})
	return activities, err
}
