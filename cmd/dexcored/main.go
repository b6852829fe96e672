package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Populated at build time via -ldflags.
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dexcored",
		Short: "Concentrated-liquidity DEX engine daemon",
		Long: `dexcored runs the standalone DEX engine: pool registry, tick-ranged
liquidity positions, dynamic-fee swaps with MEV protection, multi-hop
routing and the cross-chain atomic swap coordinator, exposed over REST.`,
	}

	rootCmd.AddCommand(
		newStartCmd(),
		newExportCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the daemon version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("dexcored %s (%s)\n", version, commit)
		},
	}
}
