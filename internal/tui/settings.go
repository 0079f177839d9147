package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flow/internal/store"
)

type settingsModel struct {
	ctx    context.Context
	store  *store.Store
	width  int
	height int

	prefs      store.Preference
	goal       int
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	pomodoroLength   *string
	shortBreakLength *string
	longBreakLength  *string
	pomodoroCount    *string
	focusGoal        *string
}

func newSettingsModel(ctx context.Context, s *store.Store) settingsModel {
	pl, sb, lb, pc, fg := "", "", "", "", ""
	return settingsModel{
		ctx:              ctx,
		store:            s,
		prefs:            store.DefaultPreferences(),
		goal:             store.DefaultFocusGoal,
		pomodoroLength:   &pl,
		shortBreakLength: &sb,
		longBreakLength:  &lb,
		pomodoroCount:    &pc,
		focusGoal:        &fg,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	prefs *store.Preference
	goal  int
}

type settingsSavedMsg struct{}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		prefs, err := s.store.GetPreferences(s.ctx)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		goal, err := s.store.GetFocusGoal(s.ctx)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsDataMsg{prefs: prefs, goal: goal}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	// Stored values refresh even while the form is open; the form keeps
	// editing its own copies.
	if msg, ok := msg.(settingsDataMsg); ok {
		if msg.prefs != nil {
			s.prefs = *msg.prefs
		}
		s.goal = msg.goal
		return s, nil
	}

	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Edit) {
		return s.showForm()
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.pomodoroLength = strconv.Itoa(s.prefs.PomodoroLength)
	*s.shortBreakLength = strconv.Itoa(s.prefs.ShortBreakLength)
	*s.longBreakLength = strconv.Itoa(s.prefs.LongBreakLength)
	*s.pomodoroCount = strconv.Itoa(s.prefs.PomodoroCount)
	*s.focusGoal = strconv.Itoa(s.goal)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pomodoro (min)").Value(s.pomodoroLength).Validate(validatePositive),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreakLength).Validate(validatePositive),
			huh.NewInput().Title("Long break (min)").Value(s.longBreakLength).Validate(validatePositive),
			huh.NewInput().Title("Pomodoros per cycle").Value(s.pomodoroCount).Validate(validatePositive),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewInput().Title("Daily focus goal (min)").Value(s.focusGoal).Validate(validatePositive),
		).Title("Goal"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, tea.Sequence(s.save(), s.refresh())
	}

	return s, cmd
}

// save writes the form values. Inputs were validated by the form, so parse
// errors are not expected here.
func (s settingsModel) save() tea.Cmd {
	prefs := store.Preference{
		PomodoroLength:   atoiOr(*s.pomodoroLength, s.prefs.PomodoroLength),
		ShortBreakLength: atoiOr(*s.shortBreakLength, s.prefs.ShortBreakLength),
		LongBreakLength:  atoiOr(*s.longBreakLength, s.prefs.LongBreakLength),
		PomodoroCount:    atoiOr(*s.pomodoroCount, s.prefs.PomodoroCount),
	}
	goal := atoiOr(*s.focusGoal, s.goal)

	return func() tea.Msg {
		if err := s.store.UpdatePreferences(s.ctx, prefs); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if err := s.store.UpdateFocusGoal(s.ctx, goal); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsSavedMsg{}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	settings := []struct {
		name  string
		value string
	}{
		{"Pomodoro", formatMinutes(s.prefs.PomodoroLength)},
		{"Short break", formatMinutes(s.prefs.ShortBreakLength)},
		{"Long break", formatMinutes(s.prefs.LongBreakLength)},
		{"Pomodoros per cycle", strconv.Itoa(s.prefs.PomodoroCount)},
		{"Daily focus goal", formatMinutes(s.goal)},
	}
	for _, setting := range settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.name)
		rows = append(rows, fmt.Sprintf("  %s %s", label, valueStyle.Render(setting.value)))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func validatePositive(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
