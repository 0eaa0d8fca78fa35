// Package cmd builds ocpledgerd's cobra command tree: serve (bring up the
// HTTP surface and operator) and replay-check (recompute a hand's chain
// from its event log and compare against the persisted snapshot).
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const binaryName = "ocpledgerd"

// NewRootCmd creates the root command, with serve and replay-check
// wired in as subcommands.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var configPath string

	root := &cobra.Command{
		Use:           binaryName,
		Short:         "OnChainPoker mental-poker ledger coordinator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML/TOML config file (optional)")

	root.AddCommand(newServeCmd(v, &configPath))
	root.AddCommand(newReplayCheckCmd(v, &configPath))
	return root
}
