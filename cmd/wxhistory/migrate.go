// ABOUTME: Migration command for copying the history between storage backends
// ABOUTME: Supports sqlite, badger, charm and file targets with a non-empty directory check

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/wxhistory/internal/config"
	"github.com/harper/wxhistory/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the history between storage backends",
	Long: `Copy every saved search from the currently configured backend to a different backend.

Records keep their IDs; IDs already present in the target are skipped. Does
NOT update the config file; verify the migration then edit config.json.

Examples:
  wxhistory migrate --to file
  wxhistory migrate --to badger --data-dir ~/wxhistory-badger
  wxhistory migrate --to sqlite --force`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite, badger, charm, file)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "target-dir", "", "target data directory (defaults to current data_dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target directory")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	targets := []string{config.BackendSQLite, config.BackendBadger, config.BackendCharm, config.BackendFile}
	if !slices.Contains(targets, targetBackend) {
		return fmt.Errorf("invalid target backend %q: must be one of %v", targetBackend, targets)
	}

	targetDataDir := cfg.GetDataDir()
	if migrateDataDir != "" {
		targetDataDir = config.ExpandPath(migrateDataDir)
	}
	if targetBackend == sourceBackend && targetDataDir == cfg.GetDataDir() {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	if targetBackend != config.BackendCharm {
		path := targetPath(targetBackend, targetDataDir)
		occupied, err := targetOccupied(targetBackend, path)
		if err != nil {
			return fmt.Errorf("check target: %w", err)
		}
		if occupied && !migrateForce {
			return fmt.Errorf("target %q already has data; use --force to merge into it", path)
		}
	}

	backend, err := config.OpenBackend(targetBackend, targetDataDir, cfg)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	dst := storage.NewStore(backend, storage.WithSlot(cfg.GetSlot()), storage.WithLogger(logger))
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	color.New(color.FgYellow).Fprintln(out, "Migrating weather history:")
	fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, cfg.GetDataDir())
	fmt.Fprintf(out, "  Target:  %s (%s)\n", targetBackend, targetDataDir)
	fmt.Fprintln(out)

	summary, err := storage.MigrateData(store, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.New(color.FgGreen).Fprintln(out, "Migration complete!")
	fmt.Fprintf(out, "  Records: %d\n", summary.Records)
	if summary.Skipped > 0 {
		fmt.Fprintf(out, "  Skipped: %d (already in target)\n", summary.Skipped)
	}
	fmt.Fprintln(out)
	color.New(color.FgYellow).Fprintln(out, "Note: config.json was NOT updated. To switch to the new backend, edit:")
	fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	fmt.Fprintf(out, "  Set \"backend\": %q", targetBackend)
	if migrateDataDir != "" {
		fmt.Fprintf(out, " and \"data_dir\": %q", migrateDataDir)
	}
	fmt.Fprintln(out)

	return nil
}

// targetPath is where a local backend keeps its data under dataDir.
func targetPath(backend, dataDir string) string {
	switch backend {
	case config.BackendSQLite:
		return filepath.Join(dataDir, "wxhistory.db")
	case config.BackendBadger:
		return filepath.Join(dataDir, "badger")
	case config.BackendFile:
		return filepath.Join(dataDir, "records")
	default:
		return dataDir
	}
}

func targetOccupied(backend, path string) (bool, error) {
	if backend == config.BackendSQLite {
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	}
	return storage.IsDirNonEmpty(path)
}
