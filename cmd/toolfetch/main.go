package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datallboy/toolfetch/internal/app"
	"github.com/datallboy/toolfetch/internal/infra/config"
	"github.com/datallboy/toolfetch/internal/infra/logger"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "toolfetch",
		Short:         "Fetch vendor developer tools and session videos through a helper script",
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default config.yaml)")

	root.AddCommand(newServeCmd(), newGetCmd(), newSourcesCmd(), newCheckCmd())
	return root
}

// bootstrap loads config and opens the log. stdout controls whether log
// lines are mirrored to the terminal.
func bootstrap(stdout bool) (*app.Context, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), stdout && cfg.Log.IncludeStdout)
	if err != nil {
		return nil, fmt.Errorf("failed to open log %s: %w", cfg.Log.Path, err)
	}

	return app.NewContext(cfg, log), nil
}
