package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexcore/api"
	"github.com/paw-chain/dexcore/internal/blockclock"
	"github.com/paw-chain/dexcore/internal/config"
	"github.com/paw-chain/dexcore/internal/ledger"
	"github.com/paw-chain/dexcore/internal/verifier"
	"github.com/paw-chain/dexcore/x/dex/keeper"
	"github.com/paw-chain/dexcore/x/dex/types"
)

func newTestServer(t *testing.T) (*api.Server, *keeper.Keeper, *ledger.InMemory) {
	t.Helper()

	bank := ledger.NewInMemory()
	for _, asset := range []string{"upaw", "uusdc"} {
		bank.Mint(asset, "paw1lp", math.NewInt(100_000_000))
		bank.Mint(asset, "paw1trader", math.NewInt(100_000_000))
	}

	k, err := keeper.NewKeeper(
		dbm.NewMemDB(),
		log.NewNopLogger(),
		bank,
		verifier.Static(true),
		blockclock.NewManual(1, time.Unix(1_700_000_000, 0)),
		types.DefaultParams(),
	)
	require.NoError(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Metrics.Enabled = false

	return api.NewServer(k, cfg, log.NewNopLogger()), k, bank
}

func doRequest(t *testing.T, srv *api.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dexcore-1")
}

func TestPoolLifecycleOverREST(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// Create.
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/pools",
		`{"asset0":"upaw","asset1":"uusdc","fee_tier_bps":30,"initial_price":"2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		PoolID string `json:"pool_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.PoolID)

	// Duplicate creation conflicts.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/pools",
		`{"asset0":"uusdc","asset1":"upaw","fee_tier_bps":30,"initial_price":"2"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Deposit.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/pools/"+created.PoolID+"/liquidity",
		`{"owner":"paw1lp","tick_lower":0,"tick_upper":40000,"amount0_desired":"1000000","amount1_desired":"2000000"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Swap.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/swap",
		`{"trader":"paw1trader","pool_id":"`+created.PoolID+`","asset_in":"upaw","amount_in":"10000","min_amount_out":"19000"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var swap types.SwapResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &swap))
	require.Equal(t, int64(19_743), swap.AmountOut.Int64())

	// Read back.
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/pools/"+created.PoolID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pool types.Pool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pool))
	require.Equal(t, int64(1_010_000), pool.Reserve0.Int64())

	// Quote.
	rec = doRequest(t, srv, http.MethodGet,
		"/api/v1/quote?path=upaw,uusdc&fee_tiers=30&amount_in=1000", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/pools/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/pools",
		`{"asset0":"upaw","asset1":"upaw","fee_tier_bps":30,"initial_price":"1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/swap",
		`{"trader":"paw1trader","pool_id":"x","asset_in":"upaw","amount_in":"bogus","min_amount_out":"0"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/crosschain/swaps/abc/refund", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
