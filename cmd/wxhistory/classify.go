// ABOUTME: Classify command for WeatherAPI.com condition codes
// ABOUTME: Prints the category a code maps to, or every category's codes

package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/condition"
	"github.com/harper/wxhistory/internal/ui"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [code]",
	Short: "Show the weather category for a condition code",
	Long: `Show which category (sunny, cloudy, rainy, snowy, stormy) a condition
code maps to. Codes outside the table count as cloudy.
Without a code, every category and its codes are listed.

Examples:
  wxhistory classify 1183
  wxhistory classify`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			for _, c := range condition.Categories() {
				fmt.Fprintf(out, "%s %-7s %v\n", ui.FormatCategory(c), c, condition.Codes(c))
			}
			return nil
		}

		code, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid condition code %q: %w", args[0], err)
		}

		c := condition.Classify(code)
		fmt.Fprintf(out, "%s %d → %s\n", ui.FormatCategory(c), code, c)
		if !condition.Known(code) {
			color.New(color.Faint).Fprintln(out, "  (code not in table, default category)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
