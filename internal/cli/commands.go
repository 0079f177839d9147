package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/flow/internal/config"
	"github.com/sadopc/flow/internal/export"
	"github.com/sadopc/flow/internal/session"
	"github.com/sadopc/flow/internal/store"
	"github.com/sadopc/flow/internal/tui"
)

// TUICmd implements the 'tui' command.
type TUICmd struct{}

func (t *TUICmd) Run(root *CLI) error {
	// The store keeps its default discard logger: the TUI owns the terminal.
	s, err := root.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	app := tui.NewApp(root.context(), s, root.cfg.ExportDir)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(root.context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// StatusCmd implements the 'status' command.
type StatusCmd struct{}

func (st *StatusCmd) Run(root *CLI) error {
	s, err := root.openStore(store.WithLogger(root.logger))
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Snapshot(root.context())
	if err != nil {
		return err
	}

	total, goal, streak := 0, store.DefaultFocusGoal, store.DefaultFocusStreak
	if snap.Focus != nil {
		total = snap.Focus.TotalFocusTime
	}
	if snap.Goal != nil {
		goal, streak = snap.Goal.FocusGoal, snap.Goal.FocusStreak
	}
	prefs := store.DefaultPreferences()
	if snap.Preferences != nil {
		prefs = *snap.Preferences
	}

	progress, err := session.NewRecorder(s).Progress(root.context())
	if err != nil {
		return err
	}
	goalState := "not met yet"
	if progress.GoalMet {
		goalState = "met"
	}

	root.printf("Total focus:  %s\n", formatMinutes(total))
	root.printf("Today:        %s (%s)\n", formatMinutes(progress.Today), goalState)
	root.printf("Daily goal:   %s\n", formatMinutes(goal))
	root.printf("Streak:       %d day(s)\n", streak)
	root.printf("Pomodoro:     %s work, %s short break, %s long break, %d per cycle\n",
		formatMinutes(prefs.PomodoroLength), formatMinutes(prefs.ShortBreakLength),
		formatMinutes(prefs.LongBreakLength), prefs.PomodoroCount)
	if snap.Focus != nil && snap.Focus.WeeklyFocusTime != nil {
		root.printf("This week:    %s\n", formatMinutes(*snap.Focus.WeeklyFocusTime))
	}
	return nil
}

// RecordCmd implements the 'record' command.
type RecordCmd struct {
	Minutes int `arg:"" help:"Length of the finished session in minutes"`
}

func (r *RecordCmd) Run(root *CLI) error {
	s, err := root.openStore(store.WithLogger(root.logger))
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := session.NewRecorder(s).Record(root.context(), r.Minutes)
	if err != nil {
		return err
	}
	slog.Debug("Session recorded", "minutes", out.Minutes, "total", out.Total, "today", out.Today)

	root.printf("Recorded %s (total %s, today %s of %s)\n",
		formatMinutes(out.Minutes), formatMinutes(out.Total), formatMinutes(out.Today), formatMinutes(out.Goal))
	if out.StreakCredited {
		root.printf("Daily goal met, streak is now %d\n", out.Streak)
	}
	return nil
}

// GoalCmd implements the 'goal' command.
type GoalCmd struct {
	Minutes int `arg:"" help:"Daily focus goal in minutes"`
}

func (g *GoalCmd) Run(root *CLI) error {
	s, err := root.openStore(store.WithLogger(root.logger))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.UpdateFocusGoal(root.context(), g.Minutes); err != nil {
		return err
	}
	root.printf("Daily goal set to %s\n", formatMinutes(g.Minutes))
	return nil
}

// StreakCmd implements the 'streak' command.
type StreakCmd struct {
	Value int `arg:"" help:"New streak value"`
}

func (st *StreakCmd) Run(root *CLI) error {
	s, err := root.openStore(store.WithLogger(root.logger))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.UpdateFocusStreak(root.context(), st.Value); err != nil {
		return err
	}
	root.printf("Streak set to %d\n", st.Value)
	return nil
}

// PrefsCmd implements the 'prefs' command. Flags left at zero keep their
// current value; with no flags the current preferences are printed.
type PrefsCmd struct {
	Pomodoro   int `help:"Pomodoro length in minutes"`
	ShortBreak int `name:"short-break" help:"Short break length in minutes"`
	LongBreak  int `name:"long-break" help:"Long break length in minutes"`
	Count      int `help:"Pomodoros per cycle"`
}

func (p *PrefsCmd) Run(root *CLI) error {
	s, err := root.openStore(store.WithLogger(root.logger))
	if err != nil {
		return err
	}
	defer s.Close()

	current, err := s.GetPreferences(root.context())
	if err != nil {
		return err
	}
	prefs := store.DefaultPreferences()
	if current != nil {
		prefs = *current
	}

	if p.changed() {
		prefs = p.merge(prefs)
		if err := s.UpdatePreferences(root.context(), prefs); err != nil {
			return err
		}
	}

	root.printf("Pomodoro:     %s\n", formatMinutes(prefs.PomodoroLength))
	root.printf("Short break:  %s\n", formatMinutes(prefs.ShortBreakLength))
	root.printf("Long break:   %s\n", formatMinutes(prefs.LongBreakLength))
	root.printf("Per cycle:    %d\n", prefs.PomodoroCount)
	return nil
}

func (p *PrefsCmd) changed() bool {
	return p.Pomodoro != 0 || p.ShortBreak != 0 || p.LongBreak != 0 || p.Count != 0
}

func (p *PrefsCmd) merge(prefs store.Preference) store.Preference {
	if p.Pomodoro != 0 {
		prefs.PomodoroLength = p.Pomodoro
	}
	if p.ShortBreak != 0 {
		prefs.ShortBreakLength = p.ShortBreak
	}
	if p.LongBreak != 0 {
		prefs.LongBreakLength = p.LongBreak
	}
	if p.Count != 0 {
		prefs.PomodoroCount = p.Count
	}
	return prefs
}

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Format string `short:"f" enum:"json,csv" default:"json" help:"Output format (json, csv)"`
	Out    string `short:"o" type:"path" help:"Output file (default: flow-export-<date>.<format> in export_dir)"`
}

func (e *ExportCmd) Run(root *CLI) error {
	s, err := root.openStore(store.WithLogger(root.logger))
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Snapshot(root.context())
	if err != nil {
		return err
	}

	path := e.Out
	if path == "" {
		name := fmt.Sprintf("flow-export-%s.%s", time.Now().Format("2006-01-02"), e.Format)
		path = filepath.Join(root.cfg.ExportDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	switch e.Format {
	case "csv":
		err = export.ToCSV(snap, path)
	default:
		err = export.ToJSON(snap, path)
	}
	if err != nil {
		return err
	}
	slog.Info("Export written", "format", e.Format, "path", path)
	root.printf("Exported to %s\n", path)
	return nil
}

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(root *CLI) error {
	path := root.configPath
	if _, err := os.Stat(path); err == nil && !i.Force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	cfg, err := config.Default()
	if err != nil {
		return err
	}
	if root.DB != "" {
		cfg.DBPath = root.DB
	}
	if err := config.Write(path, cfg); err != nil {
		return err
	}
	slog.Info("Configuration written", "path", path, "force", i.Force)
	root.printf("Wrote configuration to %s\n", path)
	return nil
}

// formatMinutes renders a minute count as "2h 05m" or "45m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}
