package keeper_test

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexcore/internal/blockclock"
	"github.com/paw-chain/dexcore/internal/ledger"
	"github.com/paw-chain/dexcore/internal/verifier"
	"github.com/paw-chain/dexcore/x/dex/keeper"
	"github.com/paw-chain/dexcore/x/dex/types"
)

const (
	lpAddr     = "paw1lp"
	traderAddr = "paw1trader"

	relayerSecret = "test-relayer-secret"
)

type testEnv struct {
	keeper   *keeper.Keeper
	ledger   *ledger.InMemory
	clock    *blockclock.Manual
	verifier *verifier.HMAC
	db       *batchFailDB
}

// batchFailDB wraps the store and fails batch flushes on demand, simulating a
// storage outage at commit time.
type batchFailDB struct {
	dbm.DB
	failWrites bool
}

func (db *batchFailDB) NewBatch() dbm.Batch {
	return &batchFailBatch{Batch: db.DB.NewBatch(), db: db}
}

type batchFailBatch struct {
	dbm.Batch
	db *batchFailDB
}

func (b *batchFailBatch) Write() error {
	if b.db.failWrites {
		return errors.New("simulated storage failure")
	}
	return b.Batch.Write()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := &batchFailDB{DB: dbm.NewMemDB()}
	bank := ledger.NewInMemory()
	clock := blockclock.NewManual(1, time.Unix(1_700_000_000, 0))
	hmacVerifier := verifier.NewHMAC([]byte(relayerSecret))

	k, err := keeper.NewKeeper(
		db,
		log.NewNopLogger(),
		bank,
		hmacVerifier,
		clock,
		types.DefaultParams(),
	)
	require.NoError(t, err)

	// Generous working balances for the standard test actors.
	for _, asset := range []string{"upaw", "uusdc", "uatom"} {
		bank.Mint(asset, lpAddr, math.NewInt(100_000_000))
		bank.Mint(asset, traderAddr, math.NewInt(100_000_000))
	}

	return &testEnv{keeper: k, ledger: bank, clock: clock, verifier: hmacVerifier, db: db}
}

// nextBlock advances the manual clock one height and five seconds.
func (env *testEnv) nextBlock() {
	env.clock.Advance(1, 5*time.Second)
}

// createStandardPool sets up the canonical test pool: upaw/uusdc at 30 bps
// with reserves 1,000,000 / 2,000,000 (price 2) provided by lpAddr over the
// tick range [0, 40000).
func createStandardPool(t *testing.T, env *testEnv) string {
	t.Helper()

	poolID, err := env.keeper.CreatePool("upaw", "uusdc", 30, math.LegacyNewDec(2))
	require.NoError(t, err)

	_, _, _, err = env.keeper.AddLiquidity(
		poolID, lpAddr, 0, 40_000,
		math.NewInt(1_000_000), math.NewInt(2_000_000))
	require.NoError(t, err)
	return poolID
}

// createSecondPool sets up uatom/uusdc at 30 bps with reserves
// 1,000,000 / 1,000,000 (price 1) over [0, 20000).
func createSecondPool(t *testing.T, env *testEnv) string {
	t.Helper()

	poolID, err := env.keeper.CreatePool("uatom", "uusdc", 30, math.LegacyNewDec(1))
	require.NoError(t, err)

	_, _, _, err = env.keeper.AddLiquidity(
		poolID, lpAddr, 0, 20_000,
		math.NewInt(1_000_000), math.NewInt(1_000_000))
	require.NoError(t, err)
	return poolID
}
