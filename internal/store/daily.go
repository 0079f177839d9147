package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetFocusToday returns the minutes recorded today, or 0 when nothing has
// been recorded since local midnight or the goal collection is empty.
func (s *Store) GetFocusToday(ctx context.Context) (int, error) {
	g, err := s.GetDailyFocusGoal(ctx)
	if err != nil {
		return 0, err
	}
	if g == nil || g.TodayDate.Format(dateLayout) != s.day() {
		return 0, nil
	}
	return g.TodayFocus, nil
}

// RecordFocus adds a finished session to the focus total and to today's
// counter in one transaction. Today's counter restarts at local midnight. The
// streak is incremented the first time today's focus reaches the goal.
// A later session on the same day never credits the streak again, whichever
// process records it. Nothing is written when any step fails.
func (s *Store) RecordFocus(ctx context.Context, minutes int) (FocusResult, error) {
	if minutes < 0 {
		return FocusResult{}, fmt.Errorf("focus time must not be negative, got %d: %w", minutes, ErrInvalidValue)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FocusResult{}, fmt.Errorf("begin record focus: %w", err)
	}
	defer tx.Rollback()

	g, err := scanCurrentGoal(ctx, tx)
	if err != nil {
		return FocusResult{}, err
	}
	if g == nil {
		s.logger.Warn("focus not recorded: no goal record", "minutes", minutes)
		return FocusResult{}, fmt.Errorf("record focus: %w", ErrNoCurrentRecord)
	}

	total, err := s.addFocusTime(ctx, tx, minutes)
	if err != nil {
		return FocusResult{}, err
	}

	day := s.day()
	today := minutes
	if g.TodayDate.Format(dateLayout) == day {
		today += g.TodayFocus
	}
	res := FocusResult{
		Total:   total,
		Today:   today,
		Goal:    g.FocusGoal,
		GoalMet: today >= g.FocusGoal,
		Streak:  g.FocusStreak,
	}

	set := `today_date = ?, today_focus = ?`
	args := []any{day, today}
	if res.GoalMet && g.LastCredited.Format(dateLayout) != day {
		res.StreakCredited = true
		res.Streak++
		set += `, focus_streak = ?, last_credited = ?`
		args = append(args, res.Streak, day)
	}
	if err := s.updateCurrent(ctx, tx, "daily_focus_goals", set, args...); err != nil {
		return FocusResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return FocusResult{}, fmt.Errorf("commit record focus: %w", err)
	}
	s.logger.Debug("focus recorded",
		"minutes", minutes, "total", res.Total, "today", res.Today,
		"goal", res.Goal, "credited", res.StreakCredited)
	return res, nil
}

// addFocusTime grows the current focus total by minutes inside tx, creating
// the first record when the collection is empty. It returns the new total.
func (s *Store) addFocusTime(ctx context.Context, tx *sql.Tx, minutes int) (int, error) {
	var total int
	err := tx.QueryRowContext(ctx,
		`SELECT total_focus_time FROM focus_stats ORDER BY updated_at DESC, id DESC LIMIT 1`,
	).Scan(&total)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.insertFocusStat(ctx, tx, minutes); err != nil {
			return 0, err
		}
		return minutes, nil
	case err != nil:
		return 0, fmt.Errorf("read focus total: %w", err)
	}

	total += minutes
	if err := s.updateCurrent(ctx, tx, "focus_stats", `total_focus_time = ?`, total); err != nil {
		return 0, err
	}
	return total, nil
}
