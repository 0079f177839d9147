package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetPreferences returns the current preference record, or nil if the
// collection is unexpectedly empty.
func (s *Store) GetPreferences(ctx context.Context) (*Preference, error) {
	p := &Preference{}
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, pomodoro_length, short_break_length, long_break_length, pomodoro_count, updated_at
		 FROM preferences ORDER BY updated_at DESC, id DESC LIMIT 1`,
	).Scan(&p.ID, &p.PomodoroLength, &p.ShortBreakLength, &p.LongBreakLength, &p.PomodoroCount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	p.UpdatedAt = parseTimestamp(updatedAt)
	return p, nil
}

// UpdatePreferences overwrites the interval lengths and cycle count of the
// current preference record. The ID and UpdatedAt fields of p are ignored.
func (s *Store) UpdatePreferences(ctx context.Context, p Preference) error {
	if err := p.validate(); err != nil {
		return err
	}
	return s.updateOrWarn(ctx, "preferences",
		`pomodoro_length = ?, short_break_length = ?, long_break_length = ?, pomodoro_count = ?`,
		p.PomodoroLength, p.ShortBreakLength, p.LongBreakLength, p.PomodoroCount,
	)
}

func (s *Store) insertPreferences(ctx context.Context, q querier, p Preference) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO preferences (pomodoro_length, short_break_length, long_break_length, pomodoro_count, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.PomodoroLength, p.ShortBreakLength, p.LongBreakLength, p.PomodoroCount, s.timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert preferences: %w", err)
	}
	return res.LastInsertId()
}

func (p Preference) validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"pomodoro length", p.PomodoroLength},
		{"short break length", p.ShortBreakLength},
		{"long break length", p.LongBreakLength},
		{"pomodoro count", p.PomodoroCount},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d: %w", f.name, f.value, ErrInvalidValue)
		}
	}
	return nil
}
