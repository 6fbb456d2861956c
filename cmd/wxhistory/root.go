// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config and .env, builds the logger, and opens the history store and weather client

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/harper/wxhistory/internal/config"
	"github.com/harper/wxhistory/internal/history"
	"github.com/harper/wxhistory/internal/logging"
	"github.com/harper/wxhistory/internal/storage"
	"github.com/harper/wxhistory/internal/weather"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	store  *storage.Store
	svc    *history.Service
	logger *slog.Logger

	flagBackend  string
	flagDataDir  string
	flagSlot     string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "wxhistory",
	Short: "Weather lookups with a saved search history",
	Long: `
██╗    ██╗██╗  ██╗██╗  ██╗██╗███████╗████████╗
██║    ██║╚██╗██╔╝██║  ██║██║██╔════╝╚══██╔══╝
██║ █╗ ██║ ╚███╔╝ ███████║██║███████╗   ██║
██║███╗██║ ██╔██╗ ██╔══██║██║╚════██║   ██║
╚███╔███╔╝██╔╝ ██╗██║  ██║██║███████║   ██║
 ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚══════╝   ╚═╝

      Look up the weather and keep a history of your searches

Examples:
  wxhistory search Tokyo
  wxhistory search Tokyo --save --from 2024-01-01 --to 2024-01-05
  wxhistory list --location tok
  wxhistory export --format csv -o ~/Downloads`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlagOverrides(cfg)

		logger, err = newLogger(cfg)
		if err != nil {
			return err
		}

		store, err = cfg.OpenStore(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}

		client := weather.NewWeatherAPIClient(cfg.GetAPIKey(), weather.WithLogger(logger))
		svc = history.NewService(store, client, history.WithLogger(logger))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (sqlite, badger, charm, file, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for local backends")
	rootCmd.PersistentFlags().StringVar(&flagSlot, "slot", "", "collection name inside the backend")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// applyFlagOverrides layers command-line flags over file values through the
// environment, which the config getters already prefer and Save never writes.
func applyFlagOverrides(c *config.Config) {
	overrides := map[string]string{
		config.EnvBackend: flagBackend,
		config.EnvDataDir: flagDataDir,
		config.EnvLevel:   flagLogLevel,
	}
	for key, val := range overrides {
		if val != "" {
			_ = os.Setenv(key, val)
		}
	}
	if flagSlot != "" {
		c.Slot = flagSlot
	}
}

func newLogger(c *config.Config) (*slog.Logger, error) {
	level, err := config.ParseLogLevel(c.GetLogLevel())
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, level, c.GetLogFormat()), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
