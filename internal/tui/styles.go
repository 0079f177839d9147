package tui

import "github.com/charmbracelet/lipgloss"

// Tomato for focus, green for short breaks, teal for long breaks, amber for
// the daily goal.
var (
	colorFocus     = lipgloss.Color("#E4572E")
	colorBreak     = lipgloss.Color("#76B041")
	colorLongBreak = lipgloss.Color("#17BEBB")
	colorGoal      = lipgloss.Color("#FFC914")
	colorText      = lipgloss.Color("#ECE5DD")
	colorDim       = lipgloss.Color("#7D7461")
	colorFrame     = lipgloss.Color("#4A4238")
	colorAlert     = lipgloss.Color("#D7263D")
)

var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFocus).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorFocus).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFrame).
			Padding(1, 2)

	pickerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorFocus).
			Padding(1, 2)

	// Clock faces
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	clockRunningStyle = clockStyle.Foreground(colorFocus)
	clockPausedStyle  = clockStyle.Foreground(colorGoal)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Underline(true)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	alertStyle = lipgloss.NewStyle().
			Foreground(colorAlert)

	goalMetStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBreak)

	goalPendingStyle = lipgloss.NewStyle().
				Foreground(colorGoal)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorFocus).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorText)
)

// phaseStyles colors the countdown, label and footer indicator of each
// pomodoro phase.
var phaseStyles = map[pomodoroPhase]lipgloss.Style{
	pomodoroIdle:       clockStyle,
	pomodoroWork:       clockStyle.Foreground(colorFocus),
	pomodoroShortBreak: clockStyle.Foreground(colorBreak),
	pomodoroLongBreak:  clockStyle.Foreground(colorLongBreak),
	pomodoroCompleted:  clockStyle.Foreground(colorGoal),
}
