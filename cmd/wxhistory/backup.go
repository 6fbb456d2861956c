// ABOUTME: Backup and import commands for YAML history files
// ABOUTME: Creates portable backups and restores them by adding or replacing records

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/config"
	"github.com/harper/wxhistory/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of the history",
	Long: `Create a YAML backup file containing every saved search and its weather snapshot.

The backup file can be used to:
- Move history between machines or backends
- Restore after data loss

Examples:
  wxhistory backup --output history.yaml
  wxhistory backup -o ~/backups/wxhistory-$(date +%Y%m%d).yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := store.Count()
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		now := time.Now()
		data, err := storage.ExportBackup(store, now)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = fmt.Sprintf("wxhistory-%s.yaml", now.Format("20060102-150405"))
		}
		output = config.ExpandPath(output)

		if err := storage.AtomicWrite(output, data); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Backup created: %s\n", output)
		fmt.Fprintf(cmd.OutOrStdout(), "  %d records\n", n)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import saved searches from a YAML backup",
	Long: `Import saved searches from a backup created with 'wxhistory backup'.

By default records are added and IDs already in the history are skipped.
With --replace the current history is discarded first.

Examples:
  wxhistory import history.yaml
  wxhistory import history.yaml --replace --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := config.ExpandPath(args[0])

		data, err := os.ReadFile(filename) //nolint:gosec // user-supplied backup path
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		replace, _ := cmd.Flags().GetBool("replace")
		ok, _ := cmd.Flags().GetBool("confirm")
		if replace && !ok && !confirm(cmd, fmt.Sprintf("Replace the current history with '%s'?", args[0])) {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		added, err := storage.ImportBackup(store, data, replace)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		n, err := store.Count()
		if err != nil {
			return fmt.Errorf("imported %d records but could not read the history back: %w", added, err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Import complete")
		fmt.Fprintf(cmd.OutOrStdout(), "  %d records added, %d in history\n", added, n)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: wxhistory-YYYYMMDD-HHMMSS.yaml)")
	importCmd.Flags().Bool("replace", false, "discard the current history before importing")
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(importCmd)
}
