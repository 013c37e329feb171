// Package tui provides a Bubble Tea dashboard over the tracking data. It is
// a pure consumer: everything shown is computed by the engine and the store.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okaneo/handprint/internal/achievement"
	"github.com/okaneo/handprint/internal/stats"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	humanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	aiStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Data is one refresh-worth of dashboard content.
type Data struct {
	Today        stats.Aggregate
	Week         stats.Aggregate
	Month        stats.Aggregate
	GoalMinutes  int
	Achievements []achievement.Achievement
}

// Refresher supplies fresh dashboard data on every tick.
type Refresher func() Data

type tickMsg time.Time

// Model is the dashboard Bubble Tea model.
type Model struct {
	refresh Refresher
	data    Data
	goalBar progress.Model
	width   int
}

// New returns a dashboard model fed by the given refresher.
func New(refresh Refresher) Model {
	bar := progress.New(progress.WithDefaultGradient())
	return Model{refresh: refresh, data: refresh(), goalBar: bar}
}

// Init schedules the first refresh tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles refresh ticks, resizes, and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.goalBar.Width = min(msg.Width-8, 50)
	case tickMsg:
		m.data = m.refresh()
		return m, tick()
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("handprint"))
	b.WriteString("\n\n")

	b.WriteString(sectionHeader.Render("Time"))
	b.WriteString("\n")
	b.WriteString(renderAggregate("Today", m.data.Today))
	b.WriteString(renderAggregate("Week", m.data.Week))
	b.WriteString(renderAggregate("Month", m.data.Month))
	b.WriteString("\n")

	b.WriteString(sectionHeader.Render("Daily goal"))
	b.WriteString("\n")
	goalSeconds := m.data.GoalMinutes * 60
	ratio := 0.0
	if goalSeconds > 0 {
		ratio = float64(m.data.Today.HumanTime+m.data.Today.AITime) / float64(goalSeconds)
		if ratio > 1 {
			ratio = 1
		}
	}
	b.WriteString("  " + m.goalBar.ViewAs(ratio))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s of %dm\n",
		FormatDuration(m.data.Today.HumanTime+m.data.Today.AITime), m.data.GoalMinutes)))
	b.WriteString("\n")

	b.WriteString(sectionHeader.Render("Achievements"))
	b.WriteString("\n")
	for _, a := range m.data.Achievements {
		if a.Unlocked {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", a.Icon,
				unlockedStyle.Render(a.Name), dimStyle.Render(a.Description)))
		} else {
			b.WriteString("  " + lockedStyle.Render(fmt.Sprintf("🔒 %s %s", a.Name, a.Description)) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}

func renderAggregate(name string, agg stats.Aggregate) string {
	return fmt.Sprintf("  %s  %s %s  %s %s  %s %d%%\n",
		labelStyle.Render(fmt.Sprintf("%-6s", name)),
		humanStyle.Render("human"), FormatDuration(agg.HumanTime),
		aiStyle.Render("ai"), FormatDuration(agg.AITime),
		labelStyle.Render("score"), agg.Productivity,
	)
}

// FormatDuration renders whole seconds as "1h 23m" / "12m" / "45s".
func FormatDuration(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%dh %dm", seconds/3600, seconds%3600/60)
	}
	if seconds >= 60 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%ds", seconds)
}
