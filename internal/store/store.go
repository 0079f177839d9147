package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 2

// Layouts used for TEXT columns. timestampLayout is fixed width so that
// lexicographic order in SQLite matches chronological order.
const (
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
	dateLayout      = "2006-01-02"
)

var (
	// ErrNoCurrentRecord is returned by an update when the target collection
	// has no record to modify.
	ErrNoCurrentRecord = errors.New("no current record")
	// ErrInvalidValue is returned when an update carries an out-of-range value.
	ErrInvalidValue = errors.New("invalid value")
)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store at open time.
type Option func(*Store)

// WithLogger sets the logger used for seeding and integrity warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (or creates) the SQLite database at dbPath, runs migrations and
// seeds default records. The returned store is ready for use.
func Open(ctx context.Context, dbPath string, opts ...Option) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.seed(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory store for testing.
func OpenMemory(ctx context.Context, opts ...Option) (*Store, error) {
	return Open(ctx, ":memory:", opts...)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(ctx); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(ctx); err != nil {
			return err
		}
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS preferences (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		pomodoro_length     INTEGER NOT NULL CHECK (pomodoro_length > 0),
		short_break_length  INTEGER NOT NULL CHECK (short_break_length > 0),
		long_break_length   INTEGER NOT NULL CHECK (long_break_length > 0),
		pomodoro_count      INTEGER NOT NULL CHECK (pomodoro_count > 0),
		updated_at          TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS focus_stats (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		total_focus_time    INTEGER NOT NULL DEFAULT 0 CHECK (total_focus_time >= 0),
		weekly_focus_time   INTEGER,
		monthly_focus_time  INTEGER,
		updated_at          TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_focus_goals (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		date          TEXT NOT NULL,
		focus_goal    INTEGER NOT NULL CHECK (focus_goal > 0),
		focus_streak  INTEGER NOT NULL DEFAULT 0 CHECK (focus_streak >= 0),
		updated_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_preferences_current ON preferences(updated_at, id);
	CREATE INDEX IF NOT EXISTS idx_focus_stats_current ON focus_stats(updated_at, id);
	CREATE INDEX IF NOT EXISTS idx_goals_current       ON daily_focus_goals(updated_at, id);
	CREATE INDEX IF NOT EXISTS idx_goals_date          ON daily_focus_goals(date);
	`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// migrateV2 adds the per-day focus counter and the day the streak was last
// credited, so the once-per-day rule survives restarts.
func (s *Store) migrateV2(ctx context.Context) error {
	const ddl = `
	ALTER TABLE daily_focus_goals ADD COLUMN today_date TEXT NOT NULL DEFAULT '';
	ALTER TABLE daily_focus_goals ADD COLUMN today_focus INTEGER NOT NULL DEFAULT 0 CHECK (today_focus >= 0);
	ALTER TABLE daily_focus_goals ADD COLUMN last_credited TEXT NOT NULL DEFAULT '';
	`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// seed inserts the default preference and goal records into empty
// collections. Runs on every open; non-empty collections are left alone.
func (s *Store) seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	empty, err := isEmpty(ctx, tx, "preferences")
	if err != nil {
		return err
	}
	if empty {
		if _, err := s.insertPreferences(ctx, tx, DefaultPreferences()); err != nil {
			return err
		}
		s.logger.Info("seeded default preferences")
	}

	empty, err = isEmpty(ctx, tx, "daily_focus_goals")
	if err != nil {
		return err
	}
	if empty {
		if _, err := s.insertGoal(ctx, tx, DefaultFocusGoal, DefaultFocusStreak); err != nil {
			return err
		}
		s.logger.Info("seeded default focus goal", "goal", DefaultFocusGoal)
	}

	return tx.Commit()
}

func isEmpty(ctx context.Context, q querier, table string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n); err != nil {
		return false, fmt.Errorf("count %s: %w", table, err)
	}
	return n == 0, nil
}

// currentID is a subquery selecting the current record of table: the most
// recently updated one, ties going to the highest id.
func currentID(table string) string {
	return fmt.Sprintf(`(SELECT id FROM %s ORDER BY updated_at DESC, id DESC LIMIT 1)`, table)
}

// updateCurrent runs an UPDATE against the current record of table and maps
// "no row touched" to ErrNoCurrentRecord.
func (s *Store) updateCurrent(ctx context.Context, q querier, table, set string, args ...any) error {
	query := fmt.Sprintf(`UPDATE %s SET %s, updated_at = ? WHERE id = %s`, table, set, currentID(table))
	args = append(args, s.timestamp())
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s: %w", table, ErrNoCurrentRecord)
	}
	return nil
}

// updateOrWarn is updateCurrent against the database that also logs a missing
// current record. For seeded collections that means the table was emptied
// outside the store.
func (s *Store) updateOrWarn(ctx context.Context, table, set string, args ...any) error {
	err := s.updateCurrent(ctx, s.db, table, set, args...)
	if errors.Is(err, ErrNoCurrentRecord) {
		s.logger.Warn("update found no current record", "table", table)
	}
	return err
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// day returns the local calendar day used for daily accounting.
func (s *Store) day() string {
	return s.now().Format(dateLayout)
}

func parseTimestamp(v string) time.Time {
	t, _ := time.Parse(timestampLayout, v)
	return t
}

// Snapshot returns the current record of every collection.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Preferences, err = s.GetPreferences(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Focus, err = s.GetFocusStat(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Goal, err = s.GetDailyFocusGoal(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// DefaultDBPath returns ~/.config/flow/flow.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "flow", "flow.db"), nil
}
