package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flow/internal/session"
	"github.com/sadopc/flow/internal/store"
)

type statsModel struct {
	ctx      context.Context
	store    *store.Store
	recorder *session.Recorder
	width    int
	height   int

	total  int
	today  int
	met    bool
	goal   int
	streak int
	weekly *int

	chart barchart.Model
}

func newStatsModel(ctx context.Context, s *store.Store, r *session.Recorder) statsModel {
	return statsModel{
		ctx:      ctx,
		store:    s,
		recorder: r,
		goal:     store.DefaultFocusGoal,
		chart:    barchart.New(40, 10),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type statsDataMsg struct {
	snapshot store.Snapshot
	progress session.Progress
}

func (m statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.store.Snapshot(m.ctx)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		progress, err := m.recorder.Progress(m.ctx)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statsDataMsg{snapshot: snap, progress: progress}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(statsDataMsg); ok {
		m.apply(msg)
		m.buildChart()
	}
	return m, nil
}

func (m *statsModel) apply(msg statsDataMsg) {
	m.today, m.met = msg.progress.Today, msg.progress.GoalMet
	m.total, m.weekly = 0, nil
	if f := msg.snapshot.Focus; f != nil {
		m.total = f.TotalFocusTime
		m.weekly = f.WeeklyFocusTime
	}
	m.goal, m.streak = store.DefaultFocusGoal, store.DefaultFocusStreak
	if g := msg.snapshot.Goal; g != nil {
		m.goal, m.streak = g.FocusGoal, g.FocusStreak
	}
}

func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	todayColor := colorGoal
	if m.met {
		todayColor = colorBreak
	}
	bars := []barchart.BarData{
		{
			Label: "Today",
			Values: []barchart.BarValue{
				{Name: "today", Value: float64(m.today), Style: lipgloss.NewStyle().Foreground(todayColor)},
			},
		},
		{
			Label: "Goal",
			Values: []barchart.BarValue{
				{Name: "goal", Value: float64(m.goal), Style: lipgloss.NewStyle().Foreground(colorFrame)},
			},
		},
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Stats")

	goalState := goalPendingStyle.Render("not met yet")
	if m.met {
		goalState = goalMetStyle.Render("met")
	}

	label := func(s string) string { return lipgloss.NewStyle().Width(18).Render(s) }
	rows := []string{
		fmt.Sprintf("  %s %s", label("Total focus"), valueStyle.Render(formatMinutes(m.total))),
		fmt.Sprintf("  %s %s / %s (%s)", label("Today"), valueStyle.Render(formatMinutes(m.today)), formatMinutes(m.goal), goalState),
		fmt.Sprintf("  %s %s", label("Streak"), valueStyle.Render(fmt.Sprintf("%d day(s)", m.streak))),
	}
	if m.weekly != nil {
		rows = append(rows, fmt.Sprintf("  %s %s", label("This week"), valueStyle.Render(formatMinutes(*m.weekly))))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", strings.Join(rows, "\n"), "", m.chart.View(),
		),
	)
}
