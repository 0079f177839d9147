package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/flow/internal/store"
)

// ToCSV writes the snapshot as collection,field,value rows. Empty
// collections and unset rollups produce no rows.
func ToCSV(snap store.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"Collection", "Field", "Value"}); err != nil {
		return err
	}

	for _, row := range snapshotRows(snap) {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func snapshotRows(snap store.Snapshot) [][]string {
	var rows [][]string
	add := func(collection, field string, v int) {
		rows = append(rows, []string{collection, field, strconv.Itoa(v)})
	}

	if p := snap.Preferences; p != nil {
		add("preferences", "pomodoro_length", p.PomodoroLength)
		add("preferences", "short_break_length", p.ShortBreakLength)
		add("preferences", "long_break_length", p.LongBreakLength)
		add("preferences", "pomodoro_count", p.PomodoroCount)
	}
	if fs := snap.Focus; fs != nil {
		add("focus_stats", "total_focus_time", fs.TotalFocusTime)
		if fs.WeeklyFocusTime != nil {
			add("focus_stats", "weekly_focus_time", *fs.WeeklyFocusTime)
		}
		if fs.MonthlyFocusTime != nil {
			add("focus_stats", "monthly_focus_time", *fs.MonthlyFocusTime)
		}
	}
	if g := snap.Goal; g != nil {
		rows = append(rows, []string{"daily_focus_goals", "date", g.Date.Format("2006-01-02")})
		add("daily_focus_goals", "focus_goal", g.FocusGoal)
		add("daily_focus_goals", "focus_streak", g.FocusStreak)
	}
	return rows
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
