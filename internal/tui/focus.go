package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flow/internal/session"
)

// focusModel is the free-running focus stopwatch. Whole minutes are recorded
// when the timer is stopped.
type focusModel struct {
	ctx      context.Context
	recorder *session.Recorder
	width    int
	height   int

	timer timerModel
}

func newFocusModel(ctx context.Context, r *session.Recorder) focusModel {
	return focusModel{
		ctx:      ctx,
		recorder: r,
		timer:    newTimerModel(),
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		f.timer.tick()
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if !f.timer.running() {
				f.timer.start()
				return f, func() tea.Msg { return statusMsg{text: "Focus started"} }
			}
		case key.Matches(msg, keys.Pause):
			f.timer.toggle()
		case key.Matches(msg, keys.Stop):
			if f.timer.running() {
				return f.finish()
			}
		}
	}
	return f, nil
}

func (f focusModel) finish() (focusModel, tea.Cmd) {
	elapsed := f.timer.stop()
	minutes := int(elapsed / time.Minute)
	if minutes == 0 {
		return f, func() tea.Msg {
			return statusMsg{text: "Under a minute, nothing recorded"}
		}
	}
	return f, recordCmd(f.ctx, f.recorder, "focus", minutes)
}

func (f focusModel) view() string {
	w := f.width - 4

	title := titleStyle.Render("Focus Timer")
	elapsed := formatDuration(f.timer.currentElapsed())

	var clock, label, controls string
	switch {
	case !f.timer.running():
		clock = clockStyle.Width(w - 6).Render(elapsed)
		label = mutedStyle.Render("Ready")
		controls = mutedStyle.Render("s: start")
	case f.timer.paused():
		clock = clockPausedStyle.Width(w - 6).Render(elapsed)
		label = clockPausedStyle.Render("PAUSED")
		controls = mutedStyle.Render("space: resume  x: stop & record")
	default:
		clock = clockRunningStyle.Width(w - 6).Render(elapsed)
		label = clockRunningStyle.Render("FOCUSING")
		controls = mutedStyle.Render("space: pause  x: stop & record")
	}

	today := mutedStyle.Render(fmt.Sprintf("Today: %s", formatMinutes(f.recorder.Today())))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, title, "", clock, label, "", today, "", controls),
	)
}
