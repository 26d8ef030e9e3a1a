package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fieldcoach/coachsync/internal/cli/formatter"
	"github.com/fieldcoach/coachsync/internal/syncer"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch sync status live, auto-syncing when the server comes back",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			updates := make(chan syncer.Update, 16)
			unsubscribe := app.Status.Subscribe(func(u syncer.Update) {
				select {
				case updates <- u:
				default:
					// A slow UI drops intermediate updates; the next one
					// carries the current state anyway.
				}
			})
			defer unsubscribe()

			watcher := syncer.NewWatcher(app.Engine, app.Status, app.Probe, app.Config.PollInterval(), nil)
			go watcher.Run(ctx)

			m := newWatchModel(app, updates)
			_, err := tea.NewProgram(m).Run()
			return err
		},
	}
}

type watchModel struct {
	app     *App
	spinner spinner.Model
	updates chan syncer.Update
	current syncer.Update
}

func newWatchModel(app *App, updates chan syncer.Update) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple
	return watchModel{
		app:     app,
		spinner: sp,
		updates: updates,
		current: syncer.Update{
			Status:   app.Status.Status(),
			LastSync: app.Status.LastSync(),
			Info:     syncer.Info{PendingCount: app.Engine.PendingCount()},
		},
	}
}

func waitForUpdate(updates chan syncer.Update) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.updates))
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case syncer.Update:
		m.current = msg
		return m, waitForUpdate(m.updates)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	header := formatter.SyncBadge(m.current.Status)
	if m.current.Status == syncer.StateSyncing {
		header = m.spinner.View() + " " + header
	}

	body := fmt.Sprintf("%s\n\n%s %s\n%s %d\n",
		header,
		formatter.Dim("Last sync:"), formatter.HumanTimestamp(m.current.LastSync),
		formatter.Dim("Pending:"), m.current.PendingCount,
	)
	for _, id := range m.current.ConflictIDs {
		body += fmt.Sprintf("%s %s\n", formatter.StylePurple.Render("conflict:"), id)
	}
	if m.current.Message != "" {
		body += formatter.StyleRed.Render(m.current.Message) + "\n"
	}

	return formatter.RenderBox("coachsync", body+"\n"+formatter.Dim("q to quit"))
}
