// Package app provides the entry point for the gitserve command-line application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/gitserve/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "gitserve",
	DisableAutoGenTag: true,
	Short:             "gitserve exposes bare git repositories over the Smart HTTP protocol",
	Long: `gitserve is a stateless HTTP front end for git's own transport subcommands.
It resolves each request to a configured bare repository and relays the
protocol exchange to git upload-pack or git receive-pack running in
stateless-RPC mode. Missing repositories are provisioned at startup, either
as empty bare repositories or cloned from a configured remote.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := viper.BindPFlag("debug", cmd.Root().PersistentFlags().Lookup("debug")); err != nil {
			logger.Warnf("failed to bind debug flag: %v", err)
		}
		// Re-initialize so the debug flag takes effect.
		logger.Initialize()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates a new root command for the gitserve CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
