package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fieldcoach/coachsync/internal/config"
	"github.com/fieldcoach/coachsync/internal/syncer"
)

// App holds the wired sync engine used by CLI commands.
type App struct {
	Engine *syncer.Orchestrator
	Status *syncer.Machine
	// Probe reports remote reachability; the watch command polls it.
	Probe  func(context.Context) bool
	Config config.Config

	// IsInteractive reports whether stdin is a terminal; non-interactive
	// runs skip confirmation prompts.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "coachsync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "coachsync",
		Short:         "Offline-first sync for coaching observation sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSessionsCmd(app),
		newSyncCmd(app),
		newQueueCmd(app),
		newStatusCmd(app),
		newWatchCmd(app),
	)

	return root
}
