package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paw-chain/dexcore/api"
	"github.com/paw-chain/dexcore/internal/blockclock"
	"github.com/paw-chain/dexcore/internal/config"
	"github.com/paw-chain/dexcore/internal/ledger"
	"github.com/paw-chain/dexcore/internal/verifier"
	"github.com/paw-chain/dexcore/x/dex/keeper"
	"github.com/paw-chain/dexcore/x/dex/types"
)

func startFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("start", pflag.ContinueOnError)
	flags.String("config", "", "path to the configuration file")
	flags.String("home", "./data", "state directory")
	flags.String("db-backend", "goleveldb", "database backend (goleveldb or memdb)")
	flags.String("relayer-secret", "", "shared secret for cross-chain proof verification (or DEXCORE_RELAYER_SECRET)")
	flags.String("genesis", "", "genesis state file to import on an empty store")
	flags.StringArray("seed", nil, "seed a ledger balance as account:asset:amount (repeatable)")
	return flags
}

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the DEX engine and REST API",
		RunE:  runStart,
	}
	cmd.Flags().AddFlagSet(startFlags())
	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	logger := log.NewLogger(os.Stderr)

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	params, err := cfg.EngineParams()
	if err != nil {
		return err
	}

	home, _ := cmd.Flags().GetString("home")
	backend, _ := cmd.Flags().GetString("db-backend")
	db, err := openDB(home, backend)
	if err != nil {
		return err
	}
	defer db.Close()

	secret, _ := cmd.Flags().GetString("relayer-secret")
	if secret == "" {
		secret = os.Getenv("DEXCORE_RELAYER_SECRET")
	}
	if secret == "" {
		logger.Warn("no relayer secret configured, cross-chain completion proofs will be rejected")
	}

	bank := ledger.NewInMemory()
	if err := seedBalances(cmd, bank); err != nil {
		return err
	}

	k, err := keeper.NewKeeper(
		db,
		logger,
		bank,
		verifier.NewHMAC([]byte(secret)),
		blockclock.NewSystem(cfg.Chain.BlockTime),
		params,
	)
	if err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		k.WithMetrics(keeper.NewMetrics(prometheus.DefaultRegisterer))
	}

	if genesisPath, _ := cmd.Flags().GetString("genesis"); genesisPath != "" {
		if err := importGenesis(k, genesisPath); err != nil {
			return err
		}
		logger.Info("genesis state imported", "path", genesisPath)
	}
	if err := k.CheckInvariants(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting dexcored",
		"version", version,
		"chain_id", params.ChainID,
		"home", home,
		"backend", backend,
	)
	return api.NewServer(k, cfg, logger).Start(ctx)
}

func openDB(home, backend string) (dbm.DB, error) {
	switch backend {
	case "memdb":
		return dbm.NewMemDB(), nil
	case "goleveldb":
		return dbm.NewDB("dexcore", dbm.GoLevelDBBackend, home)
	default:
		return nil, fmt.Errorf("unsupported db backend %q", backend)
	}
}

// seedBalances funds ledger accounts from repeated --seed flags. Intended for
// development setups; production custody lives outside this process.
func seedBalances(cmd *cobra.Command, bank *ledger.InMemory) error {
	seeds, _ := cmd.Flags().GetStringArray("seed")
	for _, seed := range seeds {
		parts := strings.Split(seed, ":")
		if len(parts) != 3 {
			return fmt.Errorf("seed %q: want account:asset:amount", seed)
		}
		amount, err := cast.ToInt64E(parts[2])
		if err != nil || amount <= 0 {
			return fmt.Errorf("seed %q: bad amount %q", seed, parts[2])
		}
		bank.Mint(parts[1], parts[0], math.NewInt(amount))
	}
	return nil
}

func importGenesis(k *keeper.Keeper, path string) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read genesis: %w", err)
	}
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return fmt.Errorf("parse genesis: %w", err)
	}
	return k.InitGenesis(&gs)
}
