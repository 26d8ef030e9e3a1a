package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/syncer"
)

// SummaryTable renders the session list view.
func SummaryTable(summaries []domain.SessionSummary) string {
	if len(summaries) == 0 {
		return Dim("No sessions found.") + "\n"
	}

	headers := []string{"ID", "NAME", "COACH", "STATUS", "DURATION", "EVENTS", "UPDATED"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		coach := s.CoachName
		if coach == "" {
			coach = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(s.SessionID),
			s.Name,
			coach,
			SessionStatusPill(s.Status),
			FormatSeconds(s.TotalDuration),
			fmt.Sprintf("%d", s.EventCount),
			Dim(HumanTimestamp(s.UpdatedAt)),
		})
	}
	return RenderBox("Sessions", RenderTable(headers, rows))
}

// RecordDetail renders the full single-session view.
func RecordDetail(r *domain.SessionRecord) string {
	var b strings.Builder

	b.WriteString(Header(r.Name))
	b.WriteString("\n\n")

	write := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(label+":"), value))
	}
	write("ID", r.SessionID)
	write("Status", SessionStatusPill(r.Status))
	write("Context", StylePurple.Render(r.Context))
	if r.CoachName != "" {
		write("Coach", r.CoachName)
	}
	if r.ObserverName != "" {
		write("Observer", r.ObserverName)
	}
	if r.PlannedDate != "" {
		write("Planned", r.PlannedDate)
	}
	write("Updated", HumanTimestamp(r.UpdatedAt))

	b.WriteString("\n")
	write("Total time", FormatSeconds(r.TotalDuration))
	write("Ball rolling", StyleGreen.Render(FormatSeconds(r.BallRollingTime)))
	write("Ball not rolling", StyleYellow.Render(FormatSeconds(r.BallNotRollingTime)))
	write("Events", fmt.Sprintf("%d", len(r.Events)))
	write("Reflections", fmt.Sprintf("%d observer, %d coach",
		len(r.ObserverReflections), len(r.CoachReflections)))

	if r.SessionNotes != "" {
		b.WriteString("\n")
		b.WriteString(Header("Notes"))
		b.WriteString("\n" + r.SessionNotes + "\n")
	}
	if r.AISummary != "" {
		b.WriteString("\n")
		b.WriteString(Header("Summary"))
		b.WriteString("\n" + r.AISummary + "\n")
	}
	return b.String()
}

// QueueTable renders the pending change list.
func QueueTable(changes []domain.PendingChange) string {
	if len(changes) == 0 {
		return StyleGreen.Render("✔ Nothing pending.") + "\n"
	}

	headers := []string{"SESSION", "ACTION", "QUEUED", "RETRIES"}
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		action := StyleBlue.Render(string(c.Action))
		if c.Action == domain.ActionDelete {
			action = StyleRed.Render(string(c.Action))
		}
		retries := Dim("0")
		if c.RetryCount > 0 {
			retries = StyleYellow.Render(fmt.Sprintf("%d", c.RetryCount))
		}
		rows = append(rows, []string{
			TruncID(c.SessionID),
			action,
			Dim(HumanTimestamp(c.CreatedAt)),
			retries,
		})
	}
	return RenderBox("Pending Changes", RenderTable(headers, rows))
}

// StatusView renders the engine status summary.
func StatusView(state syncer.State, lastSync time.Time, pending int, conflicts []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Sync:"), SyncBadge(state)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Last sync:"), HumanTimestamp(lastSync)))
	b.WriteString(fmt.Sprintf("%s %d\n", Dim("Pending:"), pending))
	for _, id := range conflicts {
		b.WriteString(fmt.Sprintf("%s %s\n", StylePurple.Render("  conflict:"), id))
	}
	return RenderBox("Status", strings.TrimRight(b.String(), "\n"))
}

// SyncResultView renders the outcome of one queue replay pass.
func SyncResultView(res syncer.ProcessResult) string {
	parts := []string{
		StyleGreen.Render(fmt.Sprintf("%d synced", res.Processed)),
	}
	if res.Failed > 0 {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("%d failed", res.Failed)))
	}
	if len(res.Conflicts) > 0 {
		parts = append(parts, StylePurple.Render(fmt.Sprintf("%d resolved conflict(s)", len(res.Conflicts))))
	}
	return strings.Join(parts, Dim(" · "))
}
