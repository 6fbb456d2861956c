// ABOUTME: Edit command for saved searches
// ABOUTME: Changes the location or date range; the weather snapshot stays as it was saved

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/history"
	"github.com/harper/wxhistory/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the location or date range of a saved search",
	Long: `Change a saved search. Only the flags you pass are changed.

Examples:
  wxhistory edit 3f2a9c1e --to 2024-06-10
  wxhistory edit 3f2a9c1e --location Kyoto --from 2024-01-02`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := resolveID(store, args[0])
		if err != nil {
			return err
		}

		var req history.EditRequest
		if cmd.Flags().Changed("location") {
			v, _ := cmd.Flags().GetString("location")
			req.Location = &v
		}
		if cmd.Flags().Changed("from") {
			v, _ := cmd.Flags().GetString("from")
			req.StartDate = &v
		}
		if cmd.Flags().Changed("to") {
			v, _ := cmd.Flags().GetString("to")
			req.EndDate = &v
		}
		if req.IsEmpty() {
			return fmt.Errorf("nothing to change (use --location, --from or --to)")
		}

		updated, err := svc.Edit(cmd.Context(), rec.ID, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Updated %s\n", ui.ShortID(updated.ID))
		fmt.Fprintln(out, ui.FormatRecord(updated))
		return nil
	},
}

func init() {
	editCmd.Flags().StringP("location", "l", "", "new location")
	editCmd.Flags().String("from", "", "new start date (YYYY-MM-DD)")
	editCmd.Flags().String("to", "", "new end date (YYYY-MM-DD)")

	rootCmd.AddCommand(editCmd)
}
