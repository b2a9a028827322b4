package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/biotaxa/taxoclient/models"
)

var flagSince time.Duration

// defaultSyncTables are the remote tables mirrored when none are named.
var defaultSyncTables = []string{
	models.TableFileUploads,
	models.TableProcessedData,
	models.TableSamples,
	models.TableAnalysisResults,
}

var syncCmd = &cobra.Command{
	Use:   "sync [table...]",
	Short: "Reconcile the local mirror and queues with the backend",
	Long: `Replay queued writes and deferred uploads, then pull fresh rows for the
given tables (all mirrored tables when none are named) into the local
mirror.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().DurationVar(&flagSince, "since", 0, "only pull rows updated within this window (0 = everything)")
}

func runSync(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Stop()

	ctx := cmd.Context()
	if !app.Connect(ctx) {
		return fmt.Errorf("backend is unreachable, nothing to sync")
	}

	svcs := app.Services()
	state := svcs.Auth.State(ctx)
	if !state.Authenticated() {
		return fmt.Errorf("not signed in, run `taxoclient login` first")
	}

	// push first so our own writes come back in the pull
	if err = svcs.Sync.SyncToRemote(ctx); err != nil {
		return fmt.Errorf("replay queued writes: %w", err)
	}
	if err = svcs.Uploader.ProcessUploadQueue(ctx); err != nil {
		return fmt.Errorf("replay deferred uploads: %w", err)
	}

	orgID := ""
	if state.Organization != nil {
		orgID = state.Organization.ID
	}

	var since time.Time
	if flagSince > 0 {
		since = time.Now().Add(-flagSince)
	}

	tables := args
	if len(tables) == 0 {
		tables = defaultSyncTables
	}

	total := 0
	for _, table := range tables {
		n, err := svcs.Sync.SyncFromRemote(ctx, table, orgID, since)
		if err != nil {
			return fmt.Errorf("pull %s: %w", table, err)
		}
		cmd.Printf("%-18s %d rows\n", table, n)
		total += n
	}

	cmd.Printf("synced %d rows across %d tables\n", total, len(tables))
	return nil
}
