package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldcoach/coachsync/internal/cli/formatter"
)

func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued changes against the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pending := app.Engine.PendingCount()
			if pending == 0 {
				fmt.Println(formatter.Dim("Nothing to sync."))
				return nil
			}

			fmt.Printf("Syncing %d pending change(s)...\n", pending)
			res, err := app.Engine.ProcessQueue(ctx)
			if err != nil {
				return err
			}

			if res.Processed == 0 && res.Failed == 0 && len(res.Conflicts) == 0 {
				fmt.Println(formatter.StyleYellow.Render("Server unreachable, changes stay queued."))
				return nil
			}

			fmt.Println(formatter.SyncResultView(res))
			for _, id := range res.Conflicts {
				fmt.Printf("%s %s\n", formatter.StylePurple.Render("  resolved conflict:"), id)
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d change(s) failed to sync", res.Failed)
			}
			return nil
		},
	}
}

func newQueueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show changes waiting to be synced",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(formatter.QueueTable(app.Engine.PendingChanges()))
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync state, last sync time, and pending count",
		RunE: func(cmd *cobra.Command, args []string) error {
			reachable := app.Probe(context.Background())
			state := app.Status.Status()

			fmt.Print(formatter.StatusView(state, app.Status.LastSync(), app.Engine.PendingCount(), nil))
			if reachable {
				fmt.Println(formatter.StyleGreen.Render("Server reachable."))
			} else {
				fmt.Println(formatter.StyleYellow.Render("Server unreachable."))
			}
			return nil
		},
	}
}
