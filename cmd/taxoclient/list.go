package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biotaxa/taxoclient/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list <table> [id]",
	Short: "Show locally mirrored rows",
	Long: `Read rows from the local mirror of the given table. With an id, print the
full row payload. Reads never touch the backend, so they work offline at
whatever freshness the last sync left behind.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Stop()

	ctx := cmd.Context()
	svcs := app.Services()

	state := svcs.Auth.State(ctx)
	if !state.Authenticated() {
		return fmt.Errorf("not signed in, run `taxoclient login` first")
	}

	table := args[0]
	if len(args) == 2 {
		rec, err := svcs.Sync.LocalRecord(ctx, table, args[1])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s %s is not mirrored locally, run `taxoclient sync` first", table, args[1])
		}
		if err != nil {
			return err
		}
		cmd.Printf("%s\n", rec.Payload)
		return nil
	}

	orgID := ""
	if state.Organization != nil {
		orgID = state.Organization.ID
	}

	records, err := svcs.Sync.LocalRecords(ctx, table, orgID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Printf("no local rows for %s, run `taxoclient sync` first\n", table)
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%-40s %s\n", rec.ID, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("%d rows (local mirror)\n", len(records))
	return nil
}
