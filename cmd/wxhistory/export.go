// ABOUTME: Export command for JSON, CSV, XML, Markdown and GeoJSON output
// ABOUTME: Encodes the filtered history and hands it to stdout, a directory or a file

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/harper/wxhistory/internal/config"
	"github.com/harper/wxhistory/internal/download"
	"github.com/harper/wxhistory/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export saved searches in various formats",
	Long: `Export saved searches as JSON, CSV, XML, Markdown or GeoJSON.

The geojson format writes one point per record with coordinates. The track
format joins records for the same location into a line, oldest first.

Without --output the document is printed. If --output is a directory the
document is saved there under its default name (weather-history.<ext>).

Examples:
  wxhistory export --format json
  wxhistory export --format csv -o ~/Downloads
  wxhistory export --format md --location tokyo -o tokyo.md
  wxhistory export --format track --from 2024-01-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		records, err := store.GetAll(filter)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		doc, err := export.Encode(format, records)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", format, err)
		}

		output, _ := cmd.Flags().GetString("output")
		where, err := offererFor(cmd, output).Offer(doc)
		if err != nil {
			return err
		}
		if output != "" && output != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d records to %s\n", len(records), where)
		}
		return nil
	},
}

// offererFor picks where an export goes: stdout, a directory or a file.
func offererFor(cmd *cobra.Command, output string) download.Offerer {
	if output == "" || output == "-" {
		return download.WriterOfferer{W: cmd.OutOrStdout()}
	}
	path := config.ExpandPath(output)
	if info, err := os.Stat(path); (err == nil && info.IsDir()) || strings.HasSuffix(output, string(os.PathSeparator)) {
		return download.DirOfferer{Dir: path}
	}
	return download.FileOfferer{Path: path}
}

func init() {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}

	exportCmd.Flags().StringP("format", "f", string(export.FormatJSON), "output format ("+strings.Join(names, ", ")+")")
	exportCmd.Flags().StringP("output", "o", "", "output file or directory (default: stdout)")
	addFilterFlags(exportCmd)

	rootCmd.AddCommand(exportCmd)
}
