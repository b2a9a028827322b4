package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity, session and queue state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Stop()

	ctx := cmd.Context()
	online := app.Connect(ctx)

	if online {
		cmd.Println("backend:   reachable")
	} else {
		cmd.Println("backend:   unreachable (offline mode)")
	}

	svcs := app.Services()
	state := svcs.Auth.State(ctx)
	switch {
	case state.Authenticated() && state.User != nil:
		if state.Offline {
			cmd.Printf("session:   %s (cached)\n", state.User.Email)
		} else {
			cmd.Printf("session:   %s\n", state.User.Email)
		}
		if state.Organization != nil {
			cmd.Printf("org:       %s\n", state.Organization.Name)
		}
	case state.Err != nil:
		cmd.Printf("session:   error: %v\n", state.Err)
	default:
		cmd.Println("session:   not signed in")
	}

	if ops, err := svcs.Queue.Pending(ctx); err == nil {
		cmd.Printf("queued writes:    %d\n", ops)
	}
	if uploads, err := svcs.Uploader.PendingUploads(ctx); err == nil {
		cmd.Printf("queued uploads:   %d\n", uploads)
	}

	return nil
}
