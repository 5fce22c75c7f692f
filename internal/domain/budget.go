package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultHistoryMonths is the length of the budget history window when none is requested
const DefaultHistoryMonths = 6

// MaxHistoryMonths bounds the budget history window
const MaxHistoryMonths = 24

// MonthlyBudget is the spending target of one account for one calendar month.
// There is at most one per (account, year, month).
type MonthlyBudget struct {
	ID        int32           `json:"id"`
	AccountID uuid.UUID       `json:"accountId"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Period is a calendar month
type Period struct {
	Year  int
	Month int
}

// Index orders periods: later months have larger indexes
func (p Period) Index() int {
	return p.Year*12 + p.Month - 1
}

// Start returns UTC midnight of the first day of the period
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns UTC midnight of the first day of the following period
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// AddMonths returns the period n months after p (n may be negative)
func (p Period) AddMonths(n int) Period {
	t := p.Start().AddDate(0, n, 0)
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// PeriodOf returns the UTC calendar period containing t
func PeriodOf(t time.Time) Period {
	u := t.UTC()
	return Period{Year: u.Year(), Month: int(u.Month())}
}

type BudgetRepository interface {
	// Upsert inserts the budget or overwrites the amount of the existing (account, year, month) row
	Upsert(ctx context.Context, budget *MonthlyBudget) (*MonthlyBudget, error)
	// GetByPeriod returns ErrBudgetNotFound when no budget is set for the period
	GetByPeriod(ctx context.Context, accountID uuid.UUID, year, month int) (*MonthlyBudget, error)
	// GetRange returns budgets with from <= period <= to
	GetRange(ctx context.Context, accountID uuid.UUID, from, to Period) ([]*MonthlyBudget, error)
}
