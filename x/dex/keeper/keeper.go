package keeper

import (
	"encoding/json"
	"sync"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// Keeper owns all engine state. Every operation is serialized through the
// keeper mutex so no caller can observe a pool, position or guard record
// mid-update; the engine executes as a sequential state machine.
type Keeper struct {
	db       dbm.DB
	logger   log.Logger
	ledger   types.Ledger
	verifier types.ProofVerifier
	clock    types.BlockClock
	params   types.Params
	metrics  *Metrics

	mu sync.RWMutex
}

// NewKeeper creates a new engine Keeper instance.
func NewKeeper(
	db dbm.DB,
	logger log.Logger,
	ledger types.Ledger,
	verifier types.ProofVerifier,
	clock types.BlockClock,
	params types.Params,
) (*Keeper, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Keeper{
		db:       db,
		logger:   logger.With("module", types.ModuleName),
		ledger:   ledger,
		verifier: verifier,
		clock:    clock,
		params:   params,
	}, nil
}

// WithMetrics attaches prometheus metrics to the keeper.
func (k *Keeper) WithMetrics(m *Metrics) *Keeper {
	k.metrics = m
	return k
}

// Params returns the engine parameters.
func (k *Keeper) Params() types.Params {
	return k.params
}

// Logger returns the keeper logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// getJSON loads and decodes a record; the bool reports existence.
func (k *Keeper) getJSON(key []byte, out any) (bool, error) {
	bz, err := k.db.Get(key)
	if err != nil {
		return false, types.ErrStateCorruption.Wrapf("read %x: %v", key, err)
	}
	if bz == nil {
		return false, nil
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return false, types.ErrStateCorruption.Wrapf("decode %x: %v", key, err)
	}
	return true, nil
}

// setJSON encodes and stores a record.
func (k *Keeper) setJSON(key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return types.ErrStateCorruption.Wrapf("encode %x: %v", key, err)
	}
	if err := k.db.Set(key, bz); err != nil {
		return types.ErrStateCorruption.Wrapf("write %x: %v", key, err)
	}
	return nil
}

// stagedWrites collects the record mutations of one operation and flushes
// them through a single batch, so a multi-record commit lands in full or not
// at all.
type stagedWrites struct {
	batch dbm.Batch
}

func (k *Keeper) newStagedWrites() *stagedWrites {
	return &stagedWrites{batch: k.db.NewBatch()}
}

func (w *stagedWrites) set(key, value []byte) error {
	if err := w.batch.Set(key, value); err != nil {
		return types.ErrStateCorruption.Wrapf("stage %x: %v", key, err)
	}
	return nil
}

func (w *stagedWrites) setJSON(key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return types.ErrStateCorruption.Wrapf("encode %x: %v", key, err)
	}
	return w.set(key, bz)
}

func (w *stagedWrites) delete(key []byte) error {
	if err := w.batch.Delete(key); err != nil {
		return types.ErrStateCorruption.Wrapf("stage delete %x: %v", key, err)
	}
	return nil
}

func (w *stagedWrites) commit() error {
	if err := w.batch.Write(); err != nil {
		return types.ErrStateCorruption.Wrapf("flush batch: %v", err)
	}
	return nil
}

func (w *stagedWrites) close() {
	_ = w.batch.Close()
}

// unmarshalRecord decodes an iterator value.
func unmarshalRecord(bz []byte, out any) error {
	if err := json.Unmarshal(bz, out); err != nil {
		return types.ErrStateCorruption.Wrapf("decode record: %v", err)
	}
	return nil
}

// iteratePrefix walks every record under a key prefix.
func (k *Keeper) iteratePrefix(prefix []byte, cb func(key, value []byte) (stop bool, err error)) error {
	it, err := k.db.Iterator(prefix, prefixEndBytes(prefix))
	if err != nil {
		return types.ErrStateCorruption.Wrapf("iterate %x: %v", prefix, err)
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		stop, err := cb(it.Key(), it.Value())
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return it.Error()
}
