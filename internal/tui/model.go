// Package tui implements the interactive dashboard: summary cards, the
// date-grouped ledger, budget progress, and insights.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerview/ledgerview/internal/budget"
	"github.com/ledgerview/ledgerview/internal/cli"
	"github.com/ledgerview/ledgerview/internal/common"
	"github.com/ledgerview/ledgerview/internal/filter"
	"github.com/ledgerview/ledgerview/internal/viewmodel"
)

// maxLedgerGroups caps how many day groups render at once.
const maxLedgerGroups = 8

// Model is the dashboard's bubbletea model. All data flows in through the
// orchestrator; the model only renders the latest applied view state.
type Model struct {
	orch     *viewmodel.Orchestrator
	criteria filter.Criteria
	state    viewmodel.ViewState
	spinner  spinner.Model
	bar      progress.Model
	status   string
	err      error
	width    int
	height   int
	fetching bool
	syncing  bool
}

// New creates the dashboard model with the given starting criteria.
func New(orch *viewmodel.Orchestrator, criteria filter.Criteria) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.PrimaryColor)

	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false
	bar.Width = 30

	return Model{
		orch:     orch,
		criteria: criteria,
		spinner:  sp,
		bar:      bar,
	}
}

// Init issues the first refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshCmd(m.orch, m.criteria))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(m.width/2-8, 40)
		return m, nil

	case refreshedMsg:
		m.fetching = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = msg.state
		m.criteria = msg.state.Criteria
		return m, nil

	case supersededMsg:
		// A newer refresh owns the view state now.
		return m, nil

	case syncedMsg:
		m.syncing = false
		m.fetching = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = msg.state
		m.status = fmt.Sprintf("Synced: %d new, %d updated", msg.result.Created, msg.result.Updated)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey processes key bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "s":
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = ""
		return m, syncCmd(m.orch)

	case "r":
		m.fetching = true
		m.status = ""
		return m, refreshCmd(m.orch, m.criteria)

	case "p":
		m.criteria = m.criteria.WithPreset(nextPreset(m.criteria.Preset))
		m.fetching = true
		m.status = ""
		return m, refreshCmd(m.orch, m.criteria)
	}

	return m, nil
}

// nextPreset cycles through the relative presets.
func nextPreset(p filter.Preset) filter.Preset {
	switch p {
	case filter.PresetLast7Days:
		return filter.PresetLast30Days
	case filter.PresetLast30Days:
		return filter.PresetLast3Months
	default:
		return filter.PresetLast7Days
	}
}

// refreshCmd runs a refresh cycle off the UI loop.
func refreshCmd(orch *viewmodel.Orchestrator, criteria filter.Criteria) tea.Cmd {
	return func() tea.Msg {
		err := orch.Refresh(context.Background(), criteria)
		if errors.Is(err, viewmodel.ErrSuperseded) {
			return supersededMsg{}
		}
		return refreshedMsg{state: orch.State(), err: err}
	}
}

// syncCmd runs a sync-then-reload sequence off the UI loop.
func syncCmd(orch *viewmodel.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		result, err := orch.Sync(context.Background())
		return syncedMsg{result: result, state: orch.State(), err: err}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Ledgerview") + "\n")
	b.WriteString(m.renderStatusLine() + "\n\n")

	b.WriteString(m.renderSummaryCards() + "\n\n")

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLedger(),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left, m.renderBudgets(), "", m.renderInsights()),
	)
	b.WriteString(panels)

	b.WriteString("\n" + cli.SubtleStyle.Render(
		"p: change range • r: refresh • s: sync • q: quit"))
	return b.String()
}

// renderStatusLine shows the active range plus any transient status.
func (m Model) renderStatusLine() string {
	preset := m.criteria.Preset
	if preset == "" {
		preset = filter.PresetLast30Days
	}
	rangeLabel := presetLabel(preset)
	if !m.state.Query.StartDate.IsZero() {
		rangeLabel = fmt.Sprintf("%s (%s – %s)",
			rangeLabel, m.state.Query.StartDate, m.state.Query.EndDate)
	}

	parts := []string{cli.SubtleStyle.Render(rangeLabel)}
	switch {
	case m.syncing:
		parts = append(parts, m.spinner.View()+" syncing…")
	case m.fetching:
		parts = append(parts, m.spinner.View()+" refreshing…")
	case m.err != nil:
		parts = append(parts, cli.FormatError(errorLabel(m.err)))
	case m.status != "":
		parts = append(parts, cli.FormatSuccess(m.status))
	}
	return strings.Join(parts, "  ")
}

// errorLabel maps the error taxonomy onto short operator-facing text.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, common.ErrAuthExpired):
		return "Session expired. Sign in again."
	case errors.Is(err, common.ErrInvalidDateRange):
		return "Invalid date range."
	default:
		return "Refresh failed. Press r to retry."
	}
}

// presetLabel returns the human name of a preset.
func presetLabel(p filter.Preset) string {
	switch p {
	case filter.PresetLast7Days:
		return "Last 7 days"
	case filter.PresetLast30Days:
		return "Last 30 days"
	case filter.PresetLast3Months:
		return "Last 3 months"
	default:
		return "Custom range"
	}
}

// renderSummaryCards renders the filtered range's income/expense/net cards.
func (m Model) renderSummaryCards() string {
	s := m.state.RangeSummary
	cards := []string{
		summaryCard("Income", cli.SuccessStyle.Render(cli.FormatMagnitude(s.TotalIncome))),
		summaryCard("Expenses", cli.ErrorStyle.Render(cli.FormatMagnitude(s.TotalExpenses))),
		summaryCard("Net Savings", cli.BoldStyle.Render(cli.FormatMagnitude(s.NetSavings))),
		summaryCard("Transactions", cli.BoldStyle.Render(fmt.Sprintf("%d", s.TransactionCount))),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// summaryCard renders one boxed metric.
func summaryCard(label, value string) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		cli.SubtleStyle.Render(label),
		value,
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 2).
		MarginRight(1).
		Render(content)
}

// renderLedger renders the date-grouped transaction list, newest first.
func (m Model) renderLedger() string {
	if len(m.state.Groups) == 0 {
		return cli.SubtleStyle.Render("No transactions in range.")
	}

	var b strings.Builder
	groups := m.state.Groups
	if len(groups) > maxLedgerGroups {
		groups = groups[:maxLedgerGroups]
	}

	for i, g := range groups {
		header := lipgloss.JoinHorizontal(
			lipgloss.Top,
			cli.BoldStyle.Render(g.Date.Format("Mon, Jan 2")),
			"  ",
			cli.FormatAmount(g.DailyTotal),
		)
		b.WriteString(header + "\n")

		for _, t := range g.Transactions {
			name := t.DisplayName()
			if t.Pending {
				name += cli.WarningStyle.Render(" (pending)")
			}
			line := fmt.Sprintf("  %-32s %-20s %s",
				truncate(name, 32),
				cli.SubtleStyle.Render(truncate(t.CategoryLabel(), 20)),
				cli.FormatAmount(t.Amount))
			b.WriteString(line + "\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderBudgets renders budget progress with a bounded bar. The underlying
// percentage is unclamped; only the bar clamps it for display.
func (m Model) renderBudgets() string {
	if len(m.state.Budgets) == 0 {
		return cli.SubtleStyle.Render("No budgets configured.")
	}

	var b strings.Builder
	b.WriteString(cli.BoldStyle.Render("Budgets") + "\n")
	for _, status := range m.state.Budgets {
		label := fmt.Sprintf("%s  %s / %s",
			status.Category,
			cli.FormatMagnitude(status.Spent),
			cli.FormatMagnitude(status.Amount))
		switch {
		case status.IsOverBudget:
			label += "  " + cli.ErrorStyle.Render("over budget")
		case status.IsNearThreshold:
			label += "  " + cli.WarningStyle.Render("near limit")
		}

		b.WriteString(label + "\n")
		b.WriteString(m.bar.ViewAs(budget.DisplayPercent(status.PercentageUsed)/100) + "\n")
	}
	return b.String()
}

// renderInsights renders the top generated insights.
func (m Model) renderInsights() string {
	if len(m.state.Insights) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.BoldStyle.Render("Insights") + "\n")
	for i, insight := range m.state.Insights {
		if i >= 3 {
			break
		}
		b.WriteString(cli.BulbIcon + " " + insight.Title + "\n")
		b.WriteString("  " + cli.SubtleStyle.Render(truncate(insight.Description, 60)) + "\n")
	}
	return b.String()
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
