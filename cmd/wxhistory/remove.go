// ABOUTME: Remove and clear commands
// ABOUTME: Deletes one saved search or the whole history

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/ui"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved search",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := resolveID(store, args[0])
		if err != nil {
			return err
		}

		removed, err := store.Delete(rec.ID)
		if err != nil {
			return fmt.Errorf("failed to remove record: %w", err)
		}
		if !removed {
			color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "Record %s was already gone\n", ui.ShortID(rec.ID))
			return nil
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Removed %s (%s)\n", rec.Location, ui.ShortID(rec.ID))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved search",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := store.Count()
		if err != nil {
			return err
		}

		ok, _ := cmd.Flags().GetBool("confirm")
		if !ok && !confirm(cmd, fmt.Sprintf("Delete all %d saved searches?", n)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		if err := store.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Cleared %d saved searches\n", n)
		return nil
	},
}

func init() {
	clearCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
}
