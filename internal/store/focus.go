package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetFocusStat returns the current focus stat record, or nil if none has been
// written yet.
func (s *Store) GetFocusStat(ctx context.Context) (*FocusStat, error) {
	f := &FocusStat{}
	var weekly, monthly sql.NullInt64
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, total_focus_time, weekly_focus_time, monthly_focus_time, updated_at
		 FROM focus_stats ORDER BY updated_at DESC, id DESC LIMIT 1`,
	).Scan(&f.ID, &f.TotalFocusTime, &weekly, &monthly, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get focus stat: %w", err)
	}
	if weekly.Valid {
		v := int(weekly.Int64)
		f.WeeklyFocusTime = &v
	}
	if monthly.Valid {
		v := int(monthly.Int64)
		f.MonthlyFocusTime = &v
	}
	f.UpdatedAt = parseTimestamp(updatedAt)
	return f, nil
}

// GetFocusTime returns the current total focus time in minutes, or 0 when no
// focus has been recorded.
func (s *Store) GetFocusTime(ctx context.Context) (int, error) {
	f, err := s.GetFocusStat(ctx)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, nil
	}
	return f.TotalFocusTime, nil
}

// UpdateFocusTime overwrites the total focus time on the current record. The
// first call on an empty collection creates the record.
func (s *Store) UpdateFocusTime(ctx context.Context, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("focus time must not be negative, got %d: %w", minutes, ErrInvalidValue)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update focus time: %w", err)
	}
	defer tx.Rollback()

	err = s.updateCurrent(ctx, tx, "focus_stats", `total_focus_time = ?`, minutes)
	if errors.Is(err, ErrNoCurrentRecord) {
		if _, err := s.insertFocusStat(ctx, tx, minutes); err != nil {
			return err
		}
		s.logger.Debug("created focus stat record", "total", minutes)
	} else if err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateFocusRollups sets the weekly and monthly aggregates on the current
// focus stat record. A nil pointer clears the column.
func (s *Store) UpdateFocusRollups(ctx context.Context, weekly, monthly *int) error {
	for _, v := range []*int{weekly, monthly} {
		if v != nil && *v < 0 {
			return fmt.Errorf("rollup must not be negative, got %d: %w", *v, ErrInvalidValue)
		}
	}
	return s.updateOrWarn(ctx, "focus_stats",
		`weekly_focus_time = ?, monthly_focus_time = ?`,
		nullableInt(weekly), nullableInt(monthly),
	)
}

func (s *Store) insertFocusStat(ctx context.Context, q querier, total int) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO focus_stats (total_focus_time, updated_at) VALUES (?, ?)`,
		total, s.timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert focus stat: %w", err)
	}
	return res.LastInsertId()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
