package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/flow/internal/store"
)

type jsonExport struct {
	ExportedAt  string           `json:"exported_at"`
	Preferences *jsonPreferences `json:"preferences"`
	Focus       *jsonFocus       `json:"focus"`
	Goal        *jsonGoal        `json:"goal"`
}

type jsonPreferences struct {
	PomodoroMinutes   int `json:"pomodoro_minutes"`
	ShortBreakMinutes int `json:"short_break_minutes"`
	LongBreakMinutes  int `json:"long_break_minutes"`
	PomodoroCount     int `json:"pomodoro_count"`
}

type jsonFocus struct {
	TotalMinutes   int    `json:"total_minutes"`
	Total          string `json:"total"`
	WeeklyMinutes  *int   `json:"weekly_minutes,omitempty"`
	MonthlyMinutes *int   `json:"monthly_minutes,omitempty"`
	UpdatedAt      string `json:"updated_at"`
}

type jsonGoal struct {
	Date        string `json:"date"`
	GoalMinutes int    `json:"goal_minutes"`
	Streak      int    `json:"streak"`
}

func ToJSON(snap store.Snapshot, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if p := snap.Preferences; p != nil {
		export.Preferences = &jsonPreferences{
			PomodoroMinutes:   p.PomodoroLength,
			ShortBreakMinutes: p.ShortBreakLength,
			LongBreakMinutes:  p.LongBreakLength,
			PomodoroCount:     p.PomodoroCount,
		}
	}
	if f := snap.Focus; f != nil {
		export.Focus = &jsonFocus{
			TotalMinutes:   f.TotalFocusTime,
			Total:          formatMinutes(f.TotalFocusTime),
			WeeklyMinutes:  f.WeeklyFocusTime,
			MonthlyMinutes: f.MonthlyFocusTime,
			UpdatedAt:      f.UpdatedAt.Local().Format(time.RFC3339),
		}
	}
	if g := snap.Goal; g != nil {
		export.Goal = &jsonGoal{
			Date:        g.Date.Format("2006-01-02"),
			GoalMinutes: g.FocusGoal,
			Streak:      g.FocusStreak,
		}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
