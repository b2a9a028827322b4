package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biotaxa/taxoclient/models"
)

var (
	flagBucket string
	flagPrefix string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Store sequencing artifacts in object storage",
	Long: `Upload the given files. Files that cannot be delivered right now (the
backend is unreachable or an upload fails) are queued durably and retried
on the next sync.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&flagBucket, "bucket", "b", "", "destination bucket (defaults to the configured one)")
	uploadCmd.Flags().StringVar(&flagPrefix, "prefix", "", "destination key prefix (defaults to the organization id)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Stop()

	ctx := cmd.Context()
	online := app.Connect(ctx)

	svcs := app.Services()
	state := svcs.Auth.State(ctx)
	if !state.Authenticated() {
		return fmt.Errorf("not signed in, run `taxoclient login` first")
	}

	files := make([]models.LocalFile, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", arg, err)
		}
		if _, err = os.Stat(abs); err != nil {
			return fmt.Errorf("open %s: %w", arg, err)
		}
		files = append(files, models.LocalFile{Name: filepath.Base(abs), Path: abs})
	}

	bucket := flagBucket
	if bucket == "" {
		bucket = app.Config().ObjectStore.Bucket
	}
	if bucket == "" {
		return fmt.Errorf("no destination bucket configured")
	}

	prefix := flagPrefix
	if prefix == "" && state.Organization != nil {
		prefix = state.Organization.ID
	}

	dests, err := svcs.Uploader.UploadFiles(ctx, files, prefix, bucket, func(percent int) {
		fmt.Fprintf(os.Stderr, "\rprocessed %d%%", percent)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	for _, dest := range dests {
		cmd.Printf("%s\n", dest)
	}

	if !online {
		pending, _ := svcs.Uploader.PendingUploads(ctx)
		cmd.Printf("offline: %d uploads queued for the next sync\n", pending)
	}

	return nil
}
