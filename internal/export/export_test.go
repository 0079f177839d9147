package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/flow/internal/store"
)

func sampleSnapshot() store.Snapshot {
	weekly := 300
	return store.Snapshot{
		Preferences: &store.Preference{
			ID:               1,
			PomodoroLength:   30,
			ShortBreakLength: 5,
			LongBreakLength:  15,
			PomodoroCount:    4,
		},
		Focus: &store.FocusStat{
			ID:              1,
			TotalFocusTime:  135,
			WeeklyFocusTime: &weekly,
			UpdatedAt:       time.Now().UTC(),
		},
		Goal: &store.DailyFocusGoal{
			ID:          1,
			Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local),
			FocusGoal:   120,
			FocusStreak: 3,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleSnapshot(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 4 preferences + 2 focus (total, weekly) + 3 goal
	if len(records) != 10 {
		t.Fatalf("expected 10 rows, got %d: %v", len(records), records)
	}

	expectedHeader := []string{"Collection", "Field", "Value"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	values := make(map[string]string)
	for _, r := range records[1:] {
		values[r[0]+"."+r[1]] = r[2]
	}
	checks := map[string]string{
		"preferences.pomodoro_length":    "30",
		"preferences.pomodoro_count":     "4",
		"focus_stats.total_focus_time":   "135",
		"focus_stats.weekly_focus_time":  "300",
		"daily_focus_goals.date":         "2024-03-10",
		"daily_focus_goals.focus_goal":   "120",
		"daily_focus_goals.focus_streak": "3",
	}
	for k, want := range checks {
		if values[k] != want {
			t.Errorf("%s = %q, want %q", k, values[k], want)
		}
	}
	if _, ok := values["focus_stats.monthly_focus_time"]; ok {
		t.Error("unset monthly rollup should not be exported")
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(store.Snapshot{}, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(store.Snapshot{}, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleSnapshot(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	if result.Preferences == nil || result.Preferences.PomodoroMinutes != 30 {
		t.Fatalf("unexpected preferences: %+v", result.Preferences)
	}
	if result.Focus == nil || result.Focus.TotalMinutes != 135 || result.Focus.Total != "02:15" {
		t.Fatalf("unexpected focus: %+v", result.Focus)
	}
	if result.Focus.WeeklyMinutes == nil || *result.Focus.WeeklyMinutes != 300 {
		t.Fatal("weekly rollup missing")
	}
	if result.Focus.MonthlyMinutes != nil {
		t.Fatal("monthly rollup should be omitted")
	}
	if result.Goal == nil || result.Goal.Streak != 3 || result.Goal.Date != "2024-03-10" {
		t.Fatalf("unexpected goal: %+v", result.Goal)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(store.Snapshot{}, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Preferences != nil || result.Focus != nil || result.Goal != nil {
		t.Fatalf("empty snapshot should export nulls: %s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(store.Snapshot{}, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(sampleSnapshot(), path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

// ============================================================
// formatMinutes (internal helper)
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "00:00"},
		{1, "00:01"},
		{60, "01:00"},
		{135, "02:15"},
		{1500, "25:00"},
	}

	for _, tt := range tests {
		got := formatMinutes(tt.mins)
		if got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}
