// ABOUTME: Sync subcommand for the Charm cloud backend
// ABOUTME: Provides status, now, link, unlink, repair, reset and wipe commands

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/charm"
	"github.com/harper/wxhistory/internal/config"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage cloud sync for the charm backend",
	Long: `Sync your weather history with Charm Cloud using SSH key authentication.
These commands only matter when "backend" is "charm".

Commands:
  status  - Show sync status and user info
  now     - Push and pull pending changes immediately
  link    - Link this device to your Charm account
  unlink  - Unlink this device from your account
  repair  - Repair a corrupted local database
  reset   - Reset local database from cloud (discards local changes)
  wipe    - Permanently delete all data (local and cloud)

Examples:
  wxhistory sync status
  wxhistory sync now
  wxhistory sync repair --force`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend:    %s\n", cfg.GetBackend())
		fmt.Fprintf(out, "Charm Host: %s\n", cfg.GetCharmHost())
		fmt.Fprintf(out, "Database:   %s\n", charm.DBName)
		fmt.Fprintf(out, "Auto sync:  %t\n", cfg.GetAutoSync())

		cc, err := client.NewClientWithDefaults()
		if err != nil {
			color.New(color.FgYellow).Fprintln(out, "\nStatus: Not connected")
			fmt.Fprintln(out, "Run 'wxhistory sync link' to connect your account.")
			return nil
		}

		user, err := cc.ID()
		if err != nil {
			color.New(color.FgYellow).Fprintln(out, "\nStatus: Not linked")
			fmt.Fprintln(out, "Run 'wxhistory sync link' to connect your account.")
			return nil
		}

		fmt.Fprintf(out, "\nUser ID: %s\n", user)
		color.New(color.FgGreen).Fprintln(out, "Status: Connected")
		if cfg.GetBackend() != config.BackendCharm {
			color.New(color.FgYellow).Fprintf(out, "Note: the active backend is %s, so nothing is synced.\n", cfg.GetBackend())
		}
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync with the charm server immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charm.NewClient(&charm.Config{CharmHost: cfg.GetCharmHost(), DBName: charm.DBName})
		if err != nil {
			return err
		}
		if err := c.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Synced")
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to your Charm account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCharm(cmd, "link", "Device linked; weather history will now sync.")
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Unlink this device from your Charm account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCharm(cmd, "unlink", "Device unlinked; local data is preserved.")
	},
}

// runCharm hands the terminal to the charm CLI for interactive account flows.
func runCharm(cmd *cobra.Command, sub, done string) error {
	c := exec.Command("charm", sub) //nolint:gosec // fixed subcommand names
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run 'charm %s': %w\nMake sure the charm CLI is installed: go install github.com/charmbracelet/charm@latest", sub, err)
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "\n✓ %s\n", done)
	return nil
}

var repairForce bool

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair corrupted database",
	Long: `Attempt to repair a corrupted local charm database: checkpoint the WAL,
check integrity and vacuum. With --force a failed integrity check triggers
recovery and, as a last resort, a reset from the cloud.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		result, err := kv.Repair(charm.DBName, repairForce)
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "✗ Repair failed: %v\n", err)
			if !repairForce {
				fmt.Fprintln(out, "Run with --force to attempt recovery.")
			}
			return err
		}

		report := []struct {
			ok   bool
			text string
		}{
			{result.WalCheckpointed, "WAL checkpointed"},
			{result.ShmRemoved, "SHM file removed"},
			{result.IntegrityOK, "Integrity check passed"},
			{result.Vacuumed, "Database vacuumed"},
		}
		for _, r := range report {
			if r.ok {
				color.New(color.FgGreen).Fprintf(out, "  ✓ %s\n", r.text)
			}
		}
		if !result.IntegrityOK {
			color.New(color.FgRed).Fprintln(out, "  ✗ Integrity check failed")
		}
		if result.RecoveryAttempted {
			color.New(color.FgYellow).Fprintln(out, "  ⚠ Recovery attempted (REINDEX)")
		}
		if result.ResetFromCloud {
			color.New(color.FgYellow).Fprintln(out, "  ⚠ Reset from cloud")
		}
		if result.Error != nil {
			color.New(color.FgYellow).Fprintf(out, "  ⚠ Warning: %v\n", result.Error)
		}
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local database from cloud",
	RunE: func(cmd *cobra.Command, args []string) error {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "WARNING: any unsynced local changes will be lost.")
		if !confirm(cmd, "Delete the local database and pull fresh data from the cloud?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Database reset from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Permanently delete all data (local and cloud)",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		color.New(color.FgRed).Fprintln(out, "WARNING: this deletes weather history from ALL linked devices and cannot be undone.")
		fmt.Fprint(out, "Type 'wipe' to confirm: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "wipe" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("failed to wipe: %w", err)
		}
		if result.CloudBackupsDeleted > 0 {
			color.New(color.FgGreen).Fprintf(out, "✓ Deleted %d cloud backup(s)\n", result.CloudBackupsDeleted)
		}
		if result.LocalFilesDeleted > 0 {
			color.New(color.FgGreen).Fprintf(out, "✓ Deleted %d local file(s)\n", result.LocalFilesDeleted)
		}
		if result.Error != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ Warning: %v\n", result.Error)
		}
		color.New(color.FgGreen).Fprintln(out, "✓ All data wiped")
		return nil
	},
}

func init() {
	syncRepairCmd.Flags().BoolVarP(&repairForce, "force", "f", false, "force recovery even if integrity check fails")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	rootCmd.AddCommand(syncCmd)
}
