// ABOUTME: History list and show commands
// ABOUTME: Lists saved searches newest first and prints one record in detail

package main

import (
	"fmt"

	"github.com/harper/wxhistory/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved weather searches",
	Long: `List saved weather searches, most recent first.

Examples:
  wxhistory list
  wxhistory list --location par
  wxhistory list --from 2024-06-01 --to 2024-06-30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		records, err := store.GetAll(filter)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			if filter != nil {
				fmt.Fprintln(out, "No saved searches match.")
			} else {
				fmt.Fprintln(out, "No saved searches yet. Use 'wxhistory search <location> --save' to add one.")
			}
			return nil
		}

		for _, rec := range records {
			fmt.Fprintln(out, ui.FormatRecord(rec))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"get"},
	Short:   "Show a saved search with its weather snapshot",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := resolveID(store, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.FormatRecordDetail(rec))
		return nil
	},
}

func init() {
	addFilterFlags(listCmd)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
