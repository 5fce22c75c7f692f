package service

import (
	"testing"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpense(amount string, category string) *domain.Expense {
	return &domain.Expense{Description: category, Amount: decimal.RequireFromString(amount), Type: category}
}

func TestTotalExpenses(t *testing.T) {
	expenses := []*domain.Expense{newTestExpense("10.25", "Food"), newTestExpense("4.75", "Transport"), newTestExpense("5", "Books")}
	assert.Equal(t, "20.00", TotalExpenses(expenses).StringFixed(2))
	assert.True(t, TotalExpenses(nil).IsZero())
}

func TestUsagePercentage_ZeroBudgetHasNoUsage(t *testing.T) {
	_, ok := UsagePercentage(decimal.NewFromInt(50), decimal.Zero)
	assert.False(t, ok)
}

func TestUsagePercentage(t *testing.T) {
	usage, ok := UsagePercentage(decimal.NewFromInt(50), decimal.NewFromInt(1000))
	require.True(t, ok)
	assert.Equal(t, "5.00", usage.StringFixed(2))
}

func TestTier_Boundaries(t *testing.T) {
	tests := []struct {
		usage string
		want  domain.IntensityTier
	}{
		{"0", domain.TierSafe},
		{"70", domain.TierSafe},
		{"70.01", domain.TierWarning},
		{"90", domain.TierWarning},
		{"90.01", domain.TierExceeded},
		{"250", domain.TierExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.usage, func(t *testing.T) {
			assert.Equal(t, tt.want, Tier(decimal.RequireFromString(tt.usage)))
		})
	}
}

func TestAggregate_CoffeeScenario(t *testing.T) {
	period := domain.Period{Year: 2024, Month: 3}
	expenses := []*domain.Expense{newTestExpense("50", "Food")}

	status := Aggregate(period, expenses, decimal.NewFromInt(1000))

	assert.Equal(t, 2024, status.Year)
	assert.Equal(t, 3, status.Month)
	assert.Equal(t, "50.00", status.Total.StringFixed(2))
	assert.Equal(t, "950.00", status.Remaining.StringFixed(2))
	require.True(t, status.HasStatus())
	assert.Equal(t, "5.00", status.UsagePercentage.StringFixed(2))
	assert.Equal(t, domain.TierSafe, status.Tier)
}

func TestAggregate_NoBudget(t *testing.T) {
	status := Aggregate(domain.Period{Year: 2024, Month: 3}, []*domain.Expense{newTestExpense("50", "Food")}, decimal.Zero)

	assert.False(t, status.HasStatus())
	assert.Empty(t, status.Tier)
	assert.Equal(t, "-50.00", status.Remaining.StringFixed(2))
}

func TestAggregate_OverBudgetRemainingIsNegative(t *testing.T) {
	status := Aggregate(domain.Period{Year: 2024, Month: 3}, []*domain.Expense{newTestExpense("120", "Other")}, decimal.NewFromInt(100))

	assert.Equal(t, "-20.00", status.Remaining.StringFixed(2))
	assert.Equal(t, domain.TierExceeded, status.Tier)
}

func TestAggregate_DisplayVersusTotalAsymmetry(t *testing.T) {
	expenses := []*domain.Expense{newTestExpense("30", "Food"), newTestExpense("20", "Snacks")}

	status := Aggregate(domain.Period{Year: 2024, Month: 3}, expenses, decimal.NewFromInt(100))

	assert.Equal(t, "50.00", status.Total.StringFixed(2))
	require.Len(t, status.Breakdown, 4)
	assert.Equal(t, "Food", status.Breakdown[0].Category)
	assert.Equal(t, "30.00", status.Breakdown[0].Amount.StringFixed(2))
	for _, c := range status.Breakdown[1:] {
		assert.True(t, c.Amount.IsZero(), "expected %s to be zero", c.Category)
	}
}

func TestCategoryBreakdown_IsCaseSensitive(t *testing.T) {
	breakdown := CategoryBreakdown([]*domain.Expense{newTestExpense("10", "food"), newTestExpense("5", "Food")})

	assert.Equal(t, "5.00", breakdown[0].Amount.StringFixed(2))
}

func TestCategoryBreakdown_Order(t *testing.T) {
	breakdown := CategoryBreakdown(nil)

	got := make([]string, len(breakdown))
	for i, c := range breakdown {
		got[i] = c.Category
	}
	assert.Equal(t, []string{"Food", "Transport", "Entertainment", "Other"}, got)
}

func TestSummarizeByCategory_IncludesEveryCategory(t *testing.T) {
	summary := SummarizeByCategory([]*domain.Expense{newTestExpense("30", "Food"), newTestExpense("20", "Snacks"), newTestExpense("5", "Food")})

	assert.Len(t, summary, 2)
	assert.Equal(t, "35.00", summary["Food"].StringFixed(2))
	assert.Equal(t, "20.00", summary["Snacks"].StringFixed(2))
}

func TestNewHistoryEntry(t *testing.T) {
	entry := NewHistoryEntry(domain.Period{Year: 2024, Month: 8}, decimal.NewFromInt(100), decimal.NewFromInt(130))

	assert.Equal(t, "August", entry.MonthName)
	assert.Equal(t, "-30.00", entry.Remaining.StringFixed(2))
	assert.Equal(t, domain.HistoryOverBudget, entry.Status)

	entry = NewHistoryEntry(domain.Period{Year: 2024, Month: 8}, decimal.NewFromInt(100), decimal.NewFromInt(100))
	assert.Equal(t, domain.HistoryWithinBudget, entry.Status)
}
