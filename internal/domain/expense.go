package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Display categories shown in the category breakdown chart.
// The stored category set is open; anything else is still counted in totals.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryOther         = "Other"
)

// DisplayCategories is the fixed, ordered chart category set
var DisplayCategories = []string{CategoryFood, CategoryTransport, CategoryEntertainment, CategoryOther}

// ExpenseDateLayout is the wire format of an expense date
const ExpenseDateLayout = "2006-01-02"

// Amounts and budgets are stored as NUMERIC(14, 2)
const MoneyScale = 2

// MaxMoney is the largest storable amount or budget
var MaxMoney = decimal.New(1, 12).Sub(decimal.New(1, -MoneyScale))

// CheckMoney reports whether amount fits the storage columns.
// Sign rules are left to the caller.
func CheckMoney(amount decimal.Decimal) (tooPrecise, tooLarge bool) {
	return !amount.Equal(amount.Truncate(MoneyScale)), amount.Abs().GreaterThan(MaxMoney)
}

type Expense struct {
	ID          int32           `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// MonthlyTotal is the summed expense amount of one calendar month
type MonthlyTotal struct {
	Year  int
	Month int
	Total decimal.Decimal
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	GetAllByAccount(ctx context.Context, accountID uuid.UUID) ([]*Expense, error)
	// GetByDateRange returns expenses with start <= date < end
	GetByDateRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*Expense, error)
	// Update and Delete return ErrExpenseNotFound when no expense with that id belongs to the account
	Update(ctx context.Context, expense *Expense) (*Expense, error)
	Delete(ctx context.Context, accountID uuid.UUID, id int32) error
	// SumByMonth groups expenses with start <= date < end by UTC calendar month
	SumByMonth(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*MonthlyTotal, error)
}
