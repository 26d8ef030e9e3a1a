package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/syncer"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SyncBadge returns a colored indicator for the engine-wide sync state.
func SyncBadge(state syncer.State) string {
	switch state {
	case syncer.StateSynced:
		return StyleGreen.Render("● SYNCED")
	case syncer.StateSyncing:
		return StyleBlue.Render("◌ SYNCING")
	case syncer.StateOffline:
		return StyleYellow.Render("○ OFFLINE")
	case syncer.StateConflict:
		return StylePurple.Render("▲ CONFLICT")
	case syncer.StateError:
		return StyleRed.Render("✖ ERROR")
	default:
		return StyleDim.Render("● IDLE")
	}
}

// SessionStatusPill returns a colored indicator for a session's lifecycle status.
func SessionStatusPill(status domain.SessionStatus) string {
	switch status {
	case domain.SessionActive:
		return StyleGreen.Render("● Active")
	case domain.SessionPlanned:
		return StyleBlue.Render("○ Planned")
	case domain.SessionCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.SessionDraft:
		return StyleYellow.Render("◌ Draft")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
