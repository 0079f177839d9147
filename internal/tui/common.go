package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/flow/internal/session"
)

// viewState represents the currently active view.
type viewState int

const (
	viewFocus viewState = iota
	viewPomodoro
	viewStats
	viewSettings
)

var viewNames = []string{"Focus", "Pomodoro", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// sessionRecordedMsg is sent after a finished focus or work period has been
// written to the store.
type sessionRecordedMsg struct {
	source  string // "focus" or "pomodoro"
	outcome session.Outcome
}

type exportDoneMsg struct {
	path string
}

// --- Commands ---

func recordCmd(ctx context.Context, r *session.Recorder, source string, minutes int) tea.Cmd {
	return func() tea.Msg {
		out, err := r.Record(ctx, minutes)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return sessionRecordedMsg{source: source, outcome: out}
	}
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMinutes renders a minute count as "2h 05m" or "45m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func describeOutcome(o session.Outcome) string {
	text := fmt.Sprintf("Recorded %s · today %s / %s", formatMinutes(o.Minutes), formatMinutes(o.Today), formatMinutes(o.Goal))
	if o.StreakCredited {
		text += " · goal met, streak +1!"
	}
	return text
}
