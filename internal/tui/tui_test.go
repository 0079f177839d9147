package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/flow/internal/session"
	"github.com/sadopc/flow/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// manualClock is a settable time source for timerModel.
type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newManualTimer() (timerModel, *manualClock) {
	c := &manualClock{t: time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)}
	tm := newTimerModel()
	tm.now = c.now
	return tm, c
}

// ============================================================
// Timer model
// ============================================================

func TestTimerStartStop(t *testing.T) {
	tm, clock := newManualTimer()
	if tm.running() {
		t.Fatal("timer should start stopped")
	}

	tm.start()
	if !tm.running() || tm.paused() {
		t.Fatal("timer should be running after start")
	}

	clock.advance(25 * time.Minute)
	got := tm.stop()
	if got != 25*time.Minute {
		t.Fatalf("stop returned %v, want 25m", got)
	}
	if tm.running() {
		t.Fatal("timer should be stopped")
	}
}

func TestTimerStopWhenStopped(t *testing.T) {
	tm, _ := newManualTimer()
	if d := tm.stop(); d != 0 {
		t.Fatalf("stop on stopped timer should return 0, got %v", d)
	}
}

func TestTimerPauseExcludedFromElapsed(t *testing.T) {
	tm, clock := newManualTimer()
	tm.start()

	clock.advance(10 * time.Minute)
	tm.pause()
	if !tm.paused() || !tm.running() {
		t.Fatal("paused timer is still 'running' (not stopped)")
	}

	clock.advance(30 * time.Minute)
	if got := tm.currentElapsed(); got != 10*time.Minute {
		t.Fatalf("elapsed grew while paused: %v", got)
	}

	tm.resume()
	clock.advance(5 * time.Minute)
	if got := tm.stop(); got != 15*time.Minute {
		t.Fatalf("expected 15m focused, got %v", got)
	}
}

func TestTimerToggle(t *testing.T) {
	tm, _ := newManualTimer()

	tm.toggle() // stopped: no-op
	if tm.running() {
		t.Fatal("toggle should not start the timer")
	}

	tm.start()
	tm.toggle()
	if !tm.paused() {
		t.Fatal("toggle should pause")
	}
	tm.toggle()
	if tm.paused() {
		t.Fatal("toggle should resume")
	}
}

func TestTimerTick(t *testing.T) {
	tm, clock := newManualTimer()
	tm.start()
	clock.advance(90 * time.Second)
	tm.tick()
	if tm.elapsed != 90*time.Second {
		t.Fatalf("tick should update elapsed, got %v", tm.elapsed)
	}
}

// ============================================================
// Focus view
// ============================================================

func TestFocusStopRecordsMinutes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rec := session.NewRecorder(s)

	fm := newFocusModel(ctx, rec)
	tm, clock := newManualTimer()
	fm.timer = tm

	fm, _ = fm.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if !fm.timer.running() {
		t.Fatal("s should start the focus timer")
	}
	clock.advance(42*time.Minute + 30*time.Second)

	fm, cmd := fm.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if fm.timer.running() {
		t.Fatal("x should stop the focus timer")
	}
	if cmd == nil {
		t.Fatal("stopping should return a record command")
	}
	msg, ok := cmd().(sessionRecordedMsg)
	if !ok {
		t.Fatalf("expected sessionRecordedMsg")
	}
	if msg.outcome.Minutes != 42 || msg.source != "focus" {
		t.Fatalf("unexpected outcome: %+v", msg)
	}
	total, _ := s.GetFocusTime(ctx)
	if total != 42 {
		t.Fatalf("focus total = %d, want 42", total)
	}
}

func TestFocusUnderAMinuteNotRecorded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	fm := newFocusModel(ctx, session.NewRecorder(s))
	tm, clock := newManualTimer()
	fm.timer = tm

	fm.timer.start()
	clock.advance(40 * time.Second)
	_, cmd := fm.finish()
	if _, ok := cmd().(statusMsg); !ok {
		t.Fatal("short session should only produce a status message")
	}
	total, _ := s.GetFocusTime(ctx)
	if total != 0 {
		t.Fatalf("nothing should be recorded, got %d", total)
	}
}

// ============================================================
// Pomodoro model
// ============================================================

func newTestPomodoro(t *testing.T) (pomodoroModel, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	ctx := context.Background()
	return newPomodoroModel(ctx, s, session.NewRecorder(s)), s
}

func TestPomodoroInit(t *testing.T) {
	pm, _ := newTestPomodoro(t)
	if pm.phase != pomodoroIdle {
		t.Fatal("should start idle")
	}
	if pm.workDuration != 30*time.Minute || pm.breakDuration != 5*time.Minute || pm.longBreakDuration != 15*time.Minute {
		t.Fatalf("unexpected default durations: %v %v %v", pm.workDuration, pm.breakDuration, pm.longBreakDuration)
	}
	if pm.targetCount != 4 {
		t.Fatalf("expected 4 pomodoros per cycle, got %d", pm.targetCount)
	}
}

func TestPomodoroLoadsPreferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.UpdatePreferences(ctx, store.Preference{PomodoroLength: 10, ShortBreakLength: 2, LongBreakLength: 12, PomodoroCount: 2})

	pm := newPomodoroModel(ctx, s, session.NewRecorder(s))
	if pm.workDuration != 10*time.Minute {
		t.Fatalf("expected 10min work, got %v", pm.workDuration)
	}
	if pm.breakDuration != 2*time.Minute {
		t.Fatalf("expected 2min break, got %v", pm.breakDuration)
	}
	if pm.longBreakDuration != 12*time.Minute {
		t.Fatalf("expected 12min long break, got %v", pm.longBreakDuration)
	}
	if pm.targetCount != 2 {
		t.Fatalf("expected 2 target, got %d", pm.targetCount)
	}
}

func TestPomodoroStartAndCancel(t *testing.T) {
	pm, _ := newTestPomodoro(t)
	pm, _ = pm.startSession()
	if pm.phase != pomodoroWork {
		t.Fatalf("expected work phase, got %d", pm.phase)
	}
	if pm.remaining != pm.workDuration {
		t.Fatal("remaining should equal work duration")
	}

	pm, cmd := pm.cancelSession()
	if pm.phase != pomodoroIdle {
		t.Fatal("cancel should return to idle")
	}
	if _, ok := cmd().(statusMsg); !ok {
		t.Fatal("cancel should report status")
	}
}

func TestPomodoroFullCycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.UpdatePreferences(ctx, store.Preference{PomodoroLength: 25, ShortBreakLength: 5, LongBreakLength: 15, PomodoroCount: 2})
	pm := newPomodoroModel(ctx, s, session.NewRecorder(s))
	pm, _ = pm.startSession()

	// Work 1
	pm, cmd := pm.advancePhase()
	if pm.phase != pomodoroShortBreak || pm.completedCount != 1 {
		t.Fatalf("after work 1: phase=%d, count=%d", pm.phase, pm.completedCount)
	}
	if _, ok := cmd().(sessionRecordedMsg); !ok {
		t.Fatal("finished work phase should be recorded")
	}

	// Break 1
	pm, _ = pm.advancePhase()
	if pm.phase != pomodoroWork {
		t.Fatal("should go back to work after break")
	}

	// Work 2 earns the long break
	pm, cmd = pm.advancePhase()
	if pm.phase != pomodoroLongBreak || pm.completedCount != 2 {
		t.Fatalf("after work 2: phase=%d, count=%d", pm.phase, pm.completedCount)
	}
	cmd()

	pm, _ = pm.advancePhase()
	if pm.phase != pomodoroCompleted {
		t.Fatalf("expected completed, got %d", pm.phase)
	}

	total, _ := s.GetFocusTime(ctx)
	if total != 50 {
		t.Fatalf("expected 50 focus minutes recorded, got %d", total)
	}
}

func TestPomodoroSkipBreak(t *testing.T) {
	pm, _ := newTestPomodoro(t)
	pm, _ = pm.startSession()
	pm, _ = pm.advancePhase()

	pm, _ = pm.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})
	if pm.phase != pomodoroWork {
		t.Fatalf("space should skip the break, got phase %d", pm.phase)
	}
}

func TestPomodoroPhaseNames(t *testing.T) {
	phases := []pomodoroPhase{pomodoroIdle, pomodoroWork, pomodoroShortBreak, pomodoroLongBreak, pomodoroCompleted}
	for _, p := range phases {
		if name, ok := phaseNames[p]; !ok || name == "" {
			t.Fatalf("missing phase name for %d", p)
		}
	}
}

func TestFormatPomodoroTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{time.Second, "00:01"},
		{time.Minute, "01:00"},
		{25 * time.Minute, "25:00"},
		{5*time.Minute + 30*time.Second, "05:30"},
		{-time.Second, "00:00"}, // negative should clamp to 0
	}
	for _, tt := range tests {
		got := formatPomodoroTime(tt.d)
		if got != tt.want {
			t.Errorf("formatPomodoroTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// ============================================================
// Stats and settings
// ============================================================

func TestStatsRefresh(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rec := session.NewRecorder(s)
	s.UpdateFocusGoal(ctx, 60)
	s.UpdateFocusStreak(ctx, 4)
	rec.Record(ctx, 75)

	m := newStatsModel(ctx, s, rec)
	m.setSize(100, 30)
	m, _ = m.update(m.refresh()())

	if m.total != 75 || m.today != 75 || m.goal != 60 || m.streak != 5 {
		t.Fatalf("unexpected stats: total=%d today=%d goal=%d streak=%d", m.total, m.today, m.goal, m.streak)
	}
	view := m.view()
	if !strings.Contains(view, "Streak") || !strings.Contains(view, "met") {
		t.Fatalf("stats view missing content:\n%s", view)
	}
}

func TestSettingsSave(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := newSettingsModel(ctx, s)
	m, _ = m.update(m.refresh()())

	m, _ = m.showForm()
	if !m.formActive || *m.pomodoroLength != "30" || *m.focusGoal != "120" {
		t.Fatalf("form should be prefilled from the store: %q %q", *m.pomodoroLength, *m.focusGoal)
	}

	*m.pomodoroLength = "50"
	*m.shortBreakLength = "10"
	*m.longBreakLength = "20"
	*m.pomodoroCount = "3"
	*m.focusGoal = "200"
	if _, ok := m.save()().(settingsSavedMsg); !ok {
		t.Fatal("save should succeed")
	}

	prefs, _ := s.GetPreferences(ctx)
	if prefs.PomodoroLength != 50 || prefs.ShortBreakLength != 10 || prefs.LongBreakLength != 20 || prefs.PomodoroCount != 3 {
		t.Fatalf("preferences not saved: %+v", prefs)
	}
	goal, _ := s.GetFocusGoal(ctx)
	if goal != 200 {
		t.Fatalf("goal not saved: %d", goal)
	}
}

func TestSettingsFormEscCancels(t *testing.T) {
	m := newSettingsModel(context.Background(), newTestStore(t))
	m, _ = m.showForm()
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive || m.form != nil {
		t.Fatal("esc should close the form")
	}
}

func TestSettingsDataWhileFormOpen(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := newSettingsModel(ctx, s)
	m, _ = m.showForm()

	s.UpdateFocusGoal(ctx, 75)
	m, _ = m.update(m.refresh()())

	if !m.formActive {
		t.Fatal("form should stay open")
	}
	if m.goal != 75 {
		t.Fatalf("stored goal should refresh under the form, got %d", m.goal)
	}
	if *m.focusGoal != "120" {
		t.Fatalf("form input should keep the value being edited, got %q", *m.focusGoal)
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"25", true},
		{"1", true},
		{"0", false},
		{"-3", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		err := validatePositive(tt.in)
		if (err == nil) != tt.valid {
			t.Errorf("validatePositive(%q) error = %v, want valid=%v", tt.in, err, tt.valid)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 00m"},
		{125, "2h 05m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

// ============================================================
// App model
// ============================================================

func newTestApp(t *testing.T) App {
	t.Helper()
	app := NewApp(context.Background(), newTestStore(t), t.TempDir())
	app.width = 120
	app.height = 40
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	if app.activeView != viewFocus {
		t.Fatal("default view should be focus")
	}
	if app.showHelp || app.exportPicking || app.isFormActive() {
		t.Fatal("overlays should be hidden by default")
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t)

	views := []viewState{viewFocus, viewPomodoro, viewStats, viewSettings}
	for _, v := range views {
		app.activeView = v
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < len(viewNames); i++ {
		model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
		app = model.(App)
	}
	if app.activeView != viewFocus {
		t.Fatalf("tab should wrap around, got view %d", app.activeView)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t)
	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(context.Background(), newTestStore(t), t.TempDir())
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppSessionRecordedStatus(t *testing.T) {
	app := newTestApp(t)
	model, cmd := app.Update(sessionRecordedMsg{
		source:  "pomodoro",
		outcome: session.Outcome{Minutes: 30, Today: 120, Goal: 120, GoalMet: true, StreakCredited: true},
	})
	app = model.(App)

	if !strings.Contains(app.status, "streak +1") {
		t.Fatalf("status should mention the streak: %q", app.status)
	}
	if cmd == nil {
		t.Fatal("recording should refresh stats")
	}
	if !strings.Contains(app.renderFooter(), "Recorded") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppErrorStatus(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(statusMsg{text: "boom", isError: true})
	app = model.(App)
	if !app.statusErr || app.status != "boom" {
		t.Fatalf("unexpected status state: %q %v", app.status, app.statusErr)
	}
}

func TestAppExport(t *testing.T) {
	app := newTestApp(t)

	msg := app.doExport(1)()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %#v", msg)
	}
	if filepath.Dir(done.path) != app.exportDir || filepath.Ext(done.path) != ".json" {
		t.Fatalf("unexpected export path %q", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles
// ============================================================

func TestPhaseStylesCoverEveryPhase(t *testing.T) {
	for phase, name := range phaseNames {
		if _, ok := phaseStyles[phase]; !ok {
			t.Fatalf("no style for phase %s", name)
		}
		if out := phaseStyles[phase].Render(name); !strings.Contains(out, name) {
			t.Fatalf("phase style dropped text: %q", out)
		}
	}
}

func TestPomodoroViewPerPhase(t *testing.T) {
	pm, _ := newTestPomodoro(t)
	pm.setSize(100, 30)

	want := map[pomodoroPhase]string{
		pomodoroIdle:       "Ready to start",
		pomodoroWork:       "WORK",
		pomodoroShortBreak: "SHORT BREAK",
		pomodoroCompleted:  "CYCLE COMPLETE",
	}
	for phase, label := range want {
		pm.phase = phase
		if view := pm.view(); !strings.Contains(view, label) {
			t.Fatalf("phase %d view missing %q", phase, label)
		}
	}
}
