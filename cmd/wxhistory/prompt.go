// ABOUTME: Shared helpers for commands
// ABOUTME: Confirmation prompts, record ID resolution and filter flags

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/wxhistory/internal/models"
	"github.com/harper/wxhistory/internal/storage"
	"github.com/spf13/cobra"
)

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// resolveID accepts a full record ID or a unique prefix such as the short
// form printed by list.
func resolveID(repo storage.Repository, id string) (*models.HistoryRecord, error) {
	rec, err := repo.GetByID(id)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, storage.ErrNotFound) || id == "" {
		return nil, err
	}

	records, err := repo.GetAll(nil)
	if err != nil {
		return nil, err
	}
	var match *models.HistoryRecord
	for _, r := range records {
		if !strings.HasPrefix(r.ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("id prefix %q matches more than one record", id)
		}
		match = r
	}
	if match == nil {
		return nil, fmt.Errorf("record %q: %w", id, storage.ErrNotFound)
	}
	return match, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("location", "l", "", "location contains (case-insensitive)")
	cmd.Flags().String("from", "", "records starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "records ending on or before this date (YYYY-MM-DD)")
}

// filterFromFlags builds a filter from the flags added by addFilterFlags.
// It returns nil when no filter flag is set.
func filterFromFlags(cmd *cobra.Command) (*models.Filter, error) {
	location, _ := cmd.Flags().GetString("location")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	for name, val := range map[string]string{"--from": from, "--to": to} {
		if val == "" {
			continue
		}
		if _, err := models.ParseDate(val); err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", name, err)
		}
	}

	f := models.Filter{Location: strings.TrimSpace(location), StartDate: from, EndDate: to}
	if f.IsEmpty() {
		return nil, nil
	}
	return &f, nil
}
