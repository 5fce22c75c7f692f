package service

import (
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalExpenses sums the amounts of all expenses, whatever their category
func TotalExpenses(expenses []*domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// UsagePercentage returns total / budget * 100.
// ok is false when no budget is configured (budget <= 0).
func UsagePercentage(total, budget decimal.Decimal) (usage decimal.Decimal, ok bool) {
	if !budget.IsPositive() {
		return decimal.Zero, false
	}
	return total.Div(budget).Mul(hundred), true
}

// Tier classifies a usage percentage. Thresholds belong to the lower tier.
func Tier(usage decimal.Decimal) domain.IntensityTier {
	switch {
	case usage.LessThanOrEqual(domain.SafeThreshold):
		return domain.TierSafe
	case usage.LessThanOrEqual(domain.WarningThreshold):
		return domain.TierWarning
	default:
		return domain.TierExceeded
	}
}

// CategoryBreakdown sums amounts per display category, in display order.
// Categories outside domain.DisplayCategories are left out; matching is case-sensitive.
func CategoryBreakdown(expenses []*domain.Expense) []domain.CategoryTotal {
	sums := make(map[string]decimal.Decimal, len(domain.DisplayCategories))
	for _, e := range expenses {
		sums[e.Type] = sums[e.Type].Add(e.Amount)
	}

	breakdown := make([]domain.CategoryTotal, len(domain.DisplayCategories))
	for i, category := range domain.DisplayCategories {
		breakdown[i] = domain.CategoryTotal{Category: category, Amount: sums[category]}
	}
	return breakdown
}

// SummarizeByCategory sums amounts for every category present, display set or not
func SummarizeByCategory(expenses []*domain.Expense) map[string]decimal.Decimal {
	summary := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		summary[e.Type] = summary[e.Type].Add(e.Amount)
	}
	return summary
}

// Aggregate derives the budget status of one period from its expenses and budget
func Aggregate(period domain.Period, expenses []*domain.Expense, budget decimal.Decimal) *domain.BudgetStatus {
	total := TotalExpenses(expenses)
	status := &domain.BudgetStatus{
		Year:      period.Year,
		Month:     period.Month,
		Budget:    budget,
		Total:     total,
		Remaining: budget.Sub(total),
		Breakdown: CategoryBreakdown(expenses),
	}

	if usage, ok := UsagePercentage(total, budget); ok {
		status.UsagePercentage = &usage
		status.Tier = Tier(usage)
	}
	return status
}

// NewHistoryEntry builds one month of the budget history
func NewHistoryEntry(period domain.Period, budget, expenses decimal.Decimal) domain.HistoryEntry {
	remaining := budget.Sub(expenses)
	status := domain.HistoryWithinBudget
	if remaining.IsNegative() {
		status = domain.HistoryOverBudget
	}
	return domain.HistoryEntry{
		Month:     period.Month,
		Year:      period.Year,
		MonthName: util.MonthName(period.Month),
		Budget:    budget,
		Expenses:  expenses,
		Remaining: remaining,
		Status:    status,
	}
}
