package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetDailyFocusGoal returns the current goal record, or nil if the collection
// is empty.
func (s *Store) GetDailyFocusGoal(ctx context.Context) (*DailyFocusGoal, error) {
	return scanCurrentGoal(ctx, s.db)
}

// GetFocusGoal returns the current daily goal in minutes, falling back to
// DefaultFocusGoal.
func (s *Store) GetFocusGoal(ctx context.Context) (int, error) {
	g, err := s.GetDailyFocusGoal(ctx)
	if err != nil {
		return 0, err
	}
	if g == nil {
		return DefaultFocusGoal, nil
	}
	return g.FocusGoal, nil
}

// UpdateFocusGoal sets the daily goal on the current record.
func (s *Store) UpdateFocusGoal(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("focus goal must be positive, got %d: %w", minutes, ErrInvalidValue)
	}
	return s.updateOrWarn(ctx, "daily_focus_goals", `focus_goal = ?`, minutes)
}

// GetFocusStreak returns the current streak, falling back to
// DefaultFocusStreak.
func (s *Store) GetFocusStreak(ctx context.Context) (int, error) {
	g, err := s.GetDailyFocusGoal(ctx)
	if err != nil {
		return 0, err
	}
	if g == nil {
		return DefaultFocusStreak, nil
	}
	return g.FocusStreak, nil
}

// UpdateFocusStreak overwrites the streak. It is the only way to lower a
// streak; whether and when to reset is left to the caller.
func (s *Store) UpdateFocusStreak(ctx context.Context, streak int) error {
	if streak < 0 {
		return fmt.Errorf("focus streak must not be negative, got %d: %w", streak, ErrInvalidValue)
	}
	return s.updateOrWarn(ctx, "daily_focus_goals", `focus_streak = ?`, streak)
}

// IncrementFocusStreak adds one to the streak when focusMinutes meets the
// current goal. It reports whether the streak was incremented; nothing is
// written when the goal is not met.
func (s *Store) IncrementFocusStreak(ctx context.Context, focusMinutes int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin increment streak: %w", err)
	}
	defer tx.Rollback()

	g, err := scanCurrentGoal(ctx, tx)
	if err != nil {
		return false, err
	}
	goal, streak := DefaultFocusGoal, DefaultFocusStreak
	if g != nil {
		goal, streak = g.FocusGoal, g.FocusStreak
	}

	if focusMinutes < goal {
		return false, nil
	}
	if g == nil {
		s.logger.Warn("goal met but no goal record to credit", "focus", focusMinutes)
		return false, fmt.Errorf("increment streak: %w", ErrNoCurrentRecord)
	}

	if err := s.updateCurrent(ctx, tx, "daily_focus_goals",
		`focus_streak = ?, last_credited = ?`, streak+1, s.day(),
	); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit increment streak: %w", err)
	}
	s.logger.Debug("focus streak incremented", "streak", streak+1, "goal", goal, "focus", focusMinutes)
	return true, nil
}

// GoalMet reports whether focusMinutes reaches the current daily goal.
func (s *Store) GoalMet(ctx context.Context, focusMinutes int) (bool, error) {
	goal, err := s.GetFocusGoal(ctx)
	if err != nil {
		return false, err
	}
	return focusMinutes >= goal, nil
}

func (s *Store) insertGoal(ctx context.Context, q querier, goal, streak int) (int64, error) {
	now := s.now()
	res, err := q.ExecContext(ctx,
		`INSERT INTO daily_focus_goals (date, focus_goal, focus_streak, updated_at) VALUES (?, ?, ?, ?)`,
		now.Format(dateLayout), goal, streak, now.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert focus goal: %w", err)
	}
	return res.LastInsertId()
}

func scanCurrentGoal(ctx context.Context, q querier) (*DailyFocusGoal, error) {
	g := &DailyFocusGoal{}
	var date, todayDate, lastCredited, updatedAt string
	err := q.QueryRowContext(ctx,
		`SELECT id, date, focus_goal, focus_streak, today_date, today_focus, last_credited, updated_at
		 FROM daily_focus_goals ORDER BY updated_at DESC, id DESC LIMIT 1`,
	).Scan(&g.ID, &date, &g.FocusGoal, &g.FocusStreak, &todayDate, &g.TodayFocus, &lastCredited, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get focus goal: %w", err)
	}
	g.Date = parseDate(date)
	g.TodayDate = parseDate(todayDate)
	g.LastCredited = parseDate(lastCredited)
	g.UpdatedAt = parseTimestamp(updatedAt)
	return g, nil
}

// parseDate reads a dateLayout column; an empty column yields the zero time.
func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, _ := time.ParseInLocation(dateLayout, v, time.Local)
	return t
}
