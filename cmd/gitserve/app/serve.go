package app

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/stacklok/gitserve/pkg/config"
	"github.com/stacklok/gitserve/pkg/githttp"
	"github.com/stacklok/gitserve/pkg/provision"
	"github.com/stacklok/gitserve/pkg/registry"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the git Smart HTTP server",
	Long: `Loads the repository table from configuration, provisions any missing
repositories, and serves them over the Smart HTTP protocol until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Ensure server is shutdown gracefully on Ctrl+C.
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		invoker, err := githttp.NewGitInvoker()
		if err != nil {
			return fmt.Errorf("git is required to serve repositories: %w", err)
		}

		if err := provision.Setup(ctx, cfg.Repositories); err != nil {
			return fmt.Errorf("repository setup failed: %w", err)
		}

		reg, err := registry.New(cfg.Repositories)
		if err != nil {
			return err
		}

		return githttp.Serve(ctx, cfg.Server.Address(), reg, invoker)
	},
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "",
		fmt.Sprintf("Path to the config file (overrides the %s env var)", config.ConfigPathEnvVar))
}
