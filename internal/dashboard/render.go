package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/shopspring/decimal"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	editingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Bold(true)
	safeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	exceededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// RenderLedger renders the visible expenses as a table with their total
func RenderLedger(s *State) string {
	period := s.Period()
	expenses := s.Visible()
	editingID, editing := s.Editing()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Expenses - %s %d", util.MonthName(period.Month), period.Year)))
	b.WriteString("\n")

	if len(expenses) == 0 {
		b.WriteString(mutedStyle.Render("No expenses yet."))
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-5s %-28s %12s %-14s %-10s", "ID", "Description", "Amount", "Category", "Date")))
	b.WriteString("\n")

	total := decimal.Zero
	for _, e := range expenses {
		line := fmt.Sprintf("%-5d %-28s %12s %-14s %-10s", e.ID, truncate(e.Description, 28), money(e.Amount), e.Type, e.Date)
		if editing && e.ID == editingID {
			line = editingStyle.Render(line + "  (editing)")
		}
		b.WriteString(line)
		b.WriteString("\n")
		total = total.Add(e.Amount)
	}
	b.WriteString(fmt.Sprintf("%-34s %12s", "Total", money(total)))
	return b.String()
}

// RenderStatus renders the budget box and the category breakdown
func RenderStatus(status *domain.BudgetStatus) string {
	lines := []string{
		fmt.Sprintf("Budget:    %s", money(status.Budget)),
		fmt.Sprintf("Spent:     %s", money(status.Total)),
		fmt.Sprintf("Remaining: %s", money(status.Remaining)),
	}

	if status.HasStatus() {
		lines = append(lines, fmt.Sprintf("Usage:     %s%%", status.UsagePercentage.StringFixed(1)))
		lines = append(lines, tierLabel(status.Tier))
	} else {
		lines = append(lines, mutedStyle.Render("No budget set for this month."))
	}

	lines = append(lines, "", headerStyle.Render("By category"))
	for _, ct := range status.Breakdown {
		lines = append(lines, fmt.Sprintf("%-14s %12s", ct.Category, money(ct.Amount)))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func tierLabel(tier domain.IntensityTier) string {
	switch tier {
	case domain.TierSafe:
		return safeStyle.Render("Safe - Spending under control")
	case domain.TierWarning:
		return warningStyle.Render("Warning - Near budget limit")
	default:
		return exceededStyle.Render("Exceeded - Budget crossed")
	}
}

// RenderHistory renders the budget history table, most recent month first
func RenderHistory(history []HistoryEntry) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-16s %12s %12s %12s  %s", "Month", "Budget", "Expenses", "Remaining", "Status")))
	for _, h := range history {
		status := safeStyle.Render("Within Budget")
		if h.Remaining.IsNegative() {
			status = exceededStyle.Render("Over Budget")
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-16s %12s %12s %12s  %s",
			fmt.Sprintf("%s %d", h.MonthName, h.Year), money(h.Budget), money(h.Expenses), money(h.Remaining), status))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
