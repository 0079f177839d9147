package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flow/internal/session"
	"github.com/sadopc/flow/internal/store"
)

type pomodoroPhase int

const (
	pomodoroIdle pomodoroPhase = iota
	pomodoroWork
	pomodoroShortBreak
	pomodoroLongBreak
	pomodoroCompleted
)

var phaseNames = map[pomodoroPhase]string{
	pomodoroIdle:       "IDLE",
	pomodoroWork:       "WORK",
	pomodoroShortBreak: "SHORT BREAK",
	pomodoroLongBreak:  "LONG BREAK",
	pomodoroCompleted:  "COMPLETED",
}

type pomodoroModel struct {
	ctx      context.Context
	store    *store.Store
	recorder *session.Recorder
	width    int
	height   int

	phase          pomodoroPhase
	completedCount int
	targetCount    int

	// Countdown state
	remaining time.Duration
	phaseEnd  time.Time

	// Durations from preferences
	workDuration      time.Duration
	breakDuration     time.Duration
	longBreakDuration time.Duration
}

func newPomodoroModel(ctx context.Context, s *store.Store, r *session.Recorder) pomodoroModel {
	m := pomodoroModel{
		ctx:      ctx,
		store:    s,
		recorder: r,
		phase:    pomodoroIdle,
	}
	m.loadPreferences()
	return m
}

// loadPreferences reads interval lengths from the store, keeping the defaults
// when the read fails or the collection is empty.
func (p *pomodoroModel) loadPreferences() {
	prefs := store.DefaultPreferences()
	if stored, err := p.store.GetPreferences(p.ctx); err == nil && stored != nil {
		prefs = *stored
	}
	p.workDuration = time.Duration(prefs.PomodoroLength) * time.Minute
	p.breakDuration = time.Duration(prefs.ShortBreakLength) * time.Minute
	p.longBreakDuration = time.Duration(prefs.LongBreakLength) * time.Minute
	p.targetCount = prefs.PomodoroCount
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if p.phase == pomodoroWork || p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak {
			p.remaining = time.Until(p.phaseEnd)
			if p.remaining <= 0 {
				return p.advancePhase()
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if p.phase == pomodoroIdle || p.phase == pomodoroCompleted {
				return p.startSession()
			}
		case key.Matches(msg, keys.Stop):
			if p.phase != pomodoroIdle {
				return p.cancelSession()
			}
		case key.Matches(msg, keys.Pause):
			// Skip break
			if p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak {
				return p.startWorkPhase()
			}
		}
	}
	return p, nil
}

func (p pomodoroModel) startSession() (pomodoroModel, tea.Cmd) {
	p.completedCount = 0
	p.loadPreferences()
	return p.startWorkPhase()
}

func (p pomodoroModel) startWorkPhase() (pomodoroModel, tea.Cmd) {
	p.phase = pomodoroWork
	p.remaining = p.workDuration
	p.phaseEnd = time.Now().Add(p.workDuration)
	return p, nil
}

func (p pomodoroModel) advancePhase() (pomodoroModel, tea.Cmd) {
	switch p.phase {
	case pomodoroWork:
		p.completedCount++
		record := recordCmd(p.ctx, p.recorder, "pomodoro", int(p.workDuration/time.Minute))

		// The last pomodoro of a cycle earns the long break.
		if p.completedCount >= p.targetCount {
			p.phase = pomodoroLongBreak
			p.remaining = p.longBreakDuration
			p.phaseEnd = time.Now().Add(p.longBreakDuration)
		} else {
			p.phase = pomodoroShortBreak
			p.remaining = p.breakDuration
			p.phaseEnd = time.Now().Add(p.breakDuration)
		}
		return p, record

	case pomodoroShortBreak:
		return p.startWorkPhase()

	case pomodoroLongBreak:
		p.phase = pomodoroCompleted
		p.remaining = 0
		return p, func() tea.Msg {
			return statusMsg{text: "Pomodoro cycle complete! \a"}
		}
	}
	return p, nil
}

// cancelSession abandons the cycle. A work phase in progress is not recorded.
func (p pomodoroModel) cancelSession() (pomodoroModel, tea.Cmd) {
	p.phase = pomodoroIdle
	p.remaining = 0
	return p, func() tea.Msg {
		return statusMsg{text: "Pomodoro cancelled"}
	}
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	title := titleStyle.Render("Pomodoro Timer")

	style := phaseStyles[p.phase]
	clock := formatPomodoroTime(p.remaining)
	phaseLabel := style.Render(phaseNames[p.phase])
	indicator := p.renderProgress()

	switch p.phase {
	case pomodoroIdle:
		clock = formatPomodoroTime(p.workDuration)
		phaseLabel = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render(fmt.Sprintf("%d × %s, breaks %s / %s",
			p.targetCount, formatMinutes(int(p.workDuration/time.Minute)),
			formatMinutes(int(p.breakDuration/time.Minute)), formatMinutes(int(p.longBreakDuration/time.Minute))))
	case pomodoroCompleted:
		clock = "Done!"
		phaseLabel = style.Render("CYCLE COMPLETE")
	}
	timeDisplay := style.Width(w - 6).Render(clock)

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	var controls string
	switch p.phase {
	case pomodoroIdle, pomodoroCompleted:
		controls = mutedStyle.Render("s: start  q: quit")
	case pomodoroWork:
		controls = mutedStyle.Render("x: cancel")
	case pomodoroShortBreak, pomodoroLongBreak:
		controls = mutedStyle.Render("space: skip break  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderProgress() string {
	var parts []string
	for i := 0; i < p.targetCount; i++ {
		if i < p.completedCount {
			parts = append(parts, goalMetStyle.Render("●"))
		} else if i == p.completedCount && p.phase == pomodoroWork {
			parts = append(parts, phaseStyles[pomodoroWork].Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", p.completedCount, p.targetCount))
	return progress + counter
}

func formatPomodoroTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
