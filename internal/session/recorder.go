// Package session records completed focus sessions against the store and
// reports today's progress toward the daily goal.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sadopc/flow/internal/store"
)

// ErrNegativeMinutes is returned by Record for a negative session length.
var ErrNegativeMinutes = errors.New("session minutes must not be negative")

// Store is the subset of the persistence layer the recorder needs.
type Store interface {
	RecordFocus(ctx context.Context, minutes int) (store.FocusResult, error)
	GetFocusToday(ctx context.Context) (int, error)
	GoalMet(ctx context.Context, focusMinutes int) (bool, error)
}

// Outcome describes what a recorded session changed.
type Outcome struct {
	Minutes        int
	Total          int // focus total after the session
	Today          int // focus accumulated today, this session included
	Goal           int
	GoalMet        bool
	StreakCredited bool
	Streak         int
}

// Progress is today's focus and whether it reaches the goal.
type Progress struct {
	Today   int
	GoalMet bool
}

// Recorder writes sessions through the store and caches today's minutes for
// views that render synchronously. The store owns the daily counter, so any
// number of recorders and processes share one streak credit per day.
type Recorder struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	day   string
	today int
}

func NewRecorder(s Store) *Recorder {
	return &Recorder{store: s, now: time.Now}
}

// Record adds a finished session. The total, today's counter and any streak
// credit are written in one transaction: on error nothing was recorded and
// the returned Outcome is zero.
func (r *Recorder) Record(ctx context.Context, minutes int) (Outcome, error) {
	if minutes < 0 {
		return Outcome{}, fmt.Errorf("record %d: %w", minutes, ErrNegativeMinutes)
	}

	res, err := r.store.RecordFocus(ctx, minutes)
	if err != nil {
		return Outcome{}, fmt.Errorf("record session: %w", err)
	}
	r.remember(res.Today)

	return Outcome{
		Minutes:        minutes,
		Total:          res.Total,
		Today:          res.Today,
		Goal:           res.Goal,
		GoalMet:        res.GoalMet,
		StreakCredited: res.StreakCredited,
		Streak:         res.Streak,
	}, nil
}

// Progress reads today's focus from the store and checks it against the
// current goal.
func (r *Recorder) Progress(ctx context.Context) (Progress, error) {
	today, err := r.store.GetFocusToday(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("read today's focus: %w", err)
	}
	met, err := r.store.GoalMet(ctx, today)
	if err != nil {
		return Progress{}, fmt.Errorf("check goal: %w", err)
	}
	r.remember(today)
	return Progress{Today: today, GoalMet: met}, nil
}

// Today returns the last known minutes focused today, or 0 once the local
// day has changed since they were read.
func (r *Recorder) Today() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.day != r.now().Format("2006-01-02") {
		return 0
	}
	return r.today
}

func (r *Recorder) remember(today int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.day = r.now().Format("2006-01-02")
	r.today = today
}
