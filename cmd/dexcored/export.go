package main

import (
	"encoding/json"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/paw-chain/dexcore/internal/blockclock"
	"github.com/paw-chain/dexcore/internal/ledger"
	"github.com/paw-chain/dexcore/internal/verifier"
	"github.com/paw-chain/dexcore/x/dex/keeper"
	"github.com/paw-chain/dexcore/x/dex/types"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-genesis",
		Short: "Export the full engine state as genesis JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := cmd.Flags().GetString("home")
			backend, _ := cmd.Flags().GetString("db-backend")
			db, err := openDB(home, backend)
			if err != nil {
				return err
			}
			defer db.Close()

			// Collaborators are inert here; export only reads the store.
			k, err := keeper.NewKeeper(
				db,
				log.NewNopLogger(),
				ledger.NewInMemory(),
				verifier.Static(false),
				blockclock.NewSystem(time.Second),
				types.DefaultParams(),
			)
			if err != nil {
				return err
			}

			gs, err := k.ExportGenesis()
			if err != nil {
				return err
			}
			bz, err := json.MarshalIndent(gs, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(bz))
			return nil
		},
	}
	cmd.Flags().String("home", "./data", "state directory")
	cmd.Flags().String("db-backend", "goleveldb", "database backend (goleveldb or memdb)")
	return cmd
}
