package domain

import "github.com/shopspring/decimal"

// IntensityTier classifies how much of a budget has been used
type IntensityTier string

const (
	TierSafe     IntensityTier = "safe"
	TierWarning  IntensityTier = "warning"
	TierExceeded IntensityTier = "exceeded"
)

// Tier thresholds in percent. A usage equal to a threshold belongs to the lower tier.
var (
	SafeThreshold    = decimal.NewFromInt(70)
	WarningThreshold = decimal.NewFromInt(90)
)

// HistoryStatus labels a history month as within or over its budget
type HistoryStatus string

const (
	HistoryWithinBudget HistoryStatus = "within"
	HistoryOverBudget   HistoryStatus = "over"
)

// CategoryTotal is the summed amount of one display category
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// BudgetStatus is the aggregation of one period's expenses against its budget.
// UsagePercentage and Tier are unset when no budget is configured.
type BudgetStatus struct {
	Year            int              `json:"year"`
	Month           int              `json:"month"`
	Budget          decimal.Decimal  `json:"budget"`
	Total           decimal.Decimal  `json:"total"`
	Remaining       decimal.Decimal  `json:"remaining"`
	UsagePercentage *decimal.Decimal `json:"usagePercentage,omitempty"`
	Tier            IntensityTier    `json:"tier,omitempty"`
	Breakdown       []CategoryTotal  `json:"breakdown"`
}

// HasStatus reports whether a usage percentage could be computed
func (s *BudgetStatus) HasStatus() bool {
	return s.UsagePercentage != nil
}

// HistoryEntry is one month's budget-versus-spend summary
type HistoryEntry struct {
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	MonthName string          `json:"monthName"`
	Budget    decimal.Decimal `json:"budget"`
	Expenses  decimal.Decimal `json:"expenses"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    HistoryStatus   `json:"status"`
}
