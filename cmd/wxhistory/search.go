// ABOUTME: Weather search commands
// ABOUTME: Shows current conditions and forecast, optionally saving the search to history

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/condition"
	"github.com/harper/wxhistory/internal/history"
	"github.com/harper/wxhistory/internal/models"
	"github.com/harper/wxhistory/internal/ui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <location>",
	Aliases: []string{"s"},
	Short:   "Look up current weather and the 5 day forecast",
	Long: `Look up the current weather and forecast for a location.

With --save the result is stored in the history along with a date range.
--from defaults to today and --to defaults to --from.

Examples:
  wxhistory search Tokyo
  wxhistory search "48.85,2.35"
  wxhistory search Paris --save --from 2024-06-01 --to 2024-06-07`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		save, _ := cmd.Flags().GetBool("save")
		if save {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			if from == "" {
				from = models.FormatDate(time.Now())
			}
			if to == "" {
				to = from
			}

			rec, err := svc.Save(cmd.Context(), history.SaveRequest{Location: query, StartDate: from, EndDate: to})
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Saved search for %s\n", rec.Location)
			fmt.Fprintln(out, ui.FormatRecordDetail(rec))
			return nil
		}

		snap, err := svc.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		cat := condition.Classify(snap.ConditionCode())
		fmt.Fprintf(out, "%s %s\n", ui.FormatCategory(cat), color.New(color.Bold).Sprint(query))
		fmt.Fprint(out, ui.FormatSnapshot(snap))
		return nil
	},
}

var locationsCmd = &cobra.Command{
	Use:     "locations <query>",
	Aliases: []string{"suggest"},
	Short:   "Suggest locations matching a partial name",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		locations, err := svc.Suggest(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(locations) == 0 {
			fmt.Fprintln(out, "No matching locations.")
			return nil
		}
		for _, loc := range locations {
			fmt.Fprintln(out, ui.FormatLocation(loc))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Bool("save", false, "save the result to history")
	searchCmd.Flags().String("from", "", "start of the date range (YYYY-MM-DD, default today)")
	searchCmd.Flags().String("to", "", "end of the date range (YYYY-MM-DD, default --from)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(locationsCmd)
}
