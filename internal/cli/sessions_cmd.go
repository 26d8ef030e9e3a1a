package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fieldcoach/coachsync/internal/cli/formatter"
	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/repository"
	"github.com/fieldcoach/coachsync/internal/syncer"
)

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage observation session records",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsShowCmd(app),
		newSessionsSaveCmd(app),
		newSessionsDeleteCmd(app),
	)

	return cmd
}

func newSessionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, from the server or the local cache when offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := app.Engine.FetchAll(context.Background())
			if err != nil {
				return err
			}
			fmt.Print(formatter.SummaryTable(summaries))
			printOfflineHint(app)
			return nil
		},
	}
}

func newSessionsShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one session in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Engine.FetchOne(context.Background(), args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("session %s not found locally or remotely", args[0])
			}
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			fmt.Print(formatter.RecordDetail(rec))
			printOfflineHint(app)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw record as JSON")
	return cmd
}

func newSessionsSaveCmd(app *App) *cobra.Command {
	var file, name, notes, status, coachName string

	cmd := &cobra.Command{
		Use:   "save [ID]",
		Short: "Create or update a session record",
		Long: "Create or update a session record. With --file the record is read as\n" +
			"JSON; otherwise the named fields are applied on top of the existing\n" +
			"record (or a new one when no ID is given). The save always succeeds\n" +
			"locally; when the server is unreachable it is queued for later sync.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			rec, err := loadOrStartRecord(ctx, app, args, file)
			if err != nil {
				return err
			}
			if name != "" {
				rec.Name = name
			}
			if notes != "" {
				rec.SessionNotes = notes
			}
			if coachName != "" {
				rec.CoachName = coachName
			}
			if status != "" {
				if !domain.ValidSessionStatuses[status] {
					return fmt.Errorf("invalid status %q", status)
				}
				rec.Status = domain.SessionStatus(status)
			}

			if err := app.Engine.Save(ctx, rec); err != nil {
				return err
			}
			fmt.Printf("Saved session %s %s\n", rec.SessionID, formatter.SyncBadge(app.Status.Status()))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the full record from a JSON file (- for stdin)")
	cmd.Flags().StringVar(&name, "name", "", "Session name")
	cmd.Flags().StringVar(&notes, "notes", "", "Session notes")
	cmd.Flags().StringVar(&status, "status", "", "Session status (draft|planned|active|completed)")
	cmd.Flags().StringVar(&coachName, "coach", "", "Coach name")

	return cmd
}

func loadOrStartRecord(ctx context.Context, app *App, args []string, file string) (*domain.SessionRecord, error) {
	if file != "" {
		data, err := readFileOrStdin(file)
		if err != nil {
			return nil, err
		}
		var rec domain.SessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parsing record: %w", err)
		}
		if len(args) == 1 {
			rec.SessionID = args[0]
		}
		if rec.SessionID == "" {
			rec.SessionID = uuid.New().String()
		}
		return &rec, nil
	}

	if len(args) == 1 {
		rec, err := app.Engine.FetchOne(ctx, args[0])
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.SessionRecord{SessionID: args[0]}, nil
		}
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	return &domain.SessionRecord{SessionID: uuid.New().String()}, nil
}

func readFileOrStdin(path string) ([]byte, error) {
	if path == "-" {
		return os.ReadFile("/dev/stdin")
	}
	return os.ReadFile(path)
}

func newSessionsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a session locally and remotely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && app.interactive() {
				confirmed := false
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete session %s?", args[0])).
						Description("This removes the record locally and on the server.").
						Value(&confirmed),
				))
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := app.Engine.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted session %s %s\n", args[0], formatter.SyncBadge(app.Status.Status()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func printOfflineHint(app *App) {
	if app.Status.Status() != syncer.StateOffline {
		return
	}
	fmt.Println(formatter.Dim("(offline: showing locally cached data)"))
}
