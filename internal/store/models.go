package store

import "time"

// Preference holds the pomodoro interval lengths, all in minutes.
type Preference struct {
	ID               int64
	PomodoroLength   int
	ShortBreakLength int
	LongBreakLength  int
	PomodoroCount    int // pomodoros per cycle
	UpdatedAt        time.Time
}

// FocusStat is the cumulative focus total. Weekly and monthly rollups are
// optional and maintained by the caller.
type FocusStat struct {
	ID               int64
	TotalFocusTime   int // minutes
	WeeklyFocusTime  *int
	MonthlyFocusTime *int
	UpdatedAt        time.Time
}

// DailyFocusGoal is the daily focus target and the number of consecutive
// days it was met. TodayFocus counts the minutes recorded on TodayDate;
// LastCredited is the day the streak was last incremented. Both dates are
// zero until first written.
type DailyFocusGoal struct {
	ID           int64
	Date         time.Time // calendar date the record was created
	FocusGoal    int       // minutes
	FocusStreak  int
	TodayDate    time.Time
	TodayFocus   int
	LastCredited time.Time
	UpdatedAt    time.Time
}

// FocusResult reports what RecordFocus wrote.
type FocusResult struct {
	Total          int // focus total after the session
	Today          int // minutes recorded today, this session included
	Goal           int
	GoalMet        bool
	StreakCredited bool
	Streak         int
}

// Snapshot bundles the current record of every collection. Any field is nil
// when its collection is empty.
type Snapshot struct {
	Preferences *Preference
	Focus       *FocusStat
	Goal        *DailyFocusGoal
}

// Defaults applied when a collection is seeded or read while empty.
const (
	DefaultPomodoroLength   = 30
	DefaultShortBreakLength = 5
	DefaultLongBreakLength  = 15
	DefaultPomodoroCount    = 4
	DefaultFocusGoal        = 120 // 2 hours
	DefaultFocusStreak      = 0
)

// DefaultPreferences returns the preference values seeded into a fresh store.
func DefaultPreferences() Preference {
	return Preference{
		PomodoroLength:   DefaultPomodoroLength,
		ShortBreakLength: DefaultShortBreakLength,
		LongBreakLength:  DefaultLongBreakLength,
		PomodoroCount:    DefaultPomodoroCount,
	}
}
