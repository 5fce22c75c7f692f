// Package dashboard is the client side of the tracker: an explicit UI state
// store, an HTTP client for the API, CSV export and terminal rendering.
package dashboard

import (
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Expense is an expense as the API returns it
type Expense struct {
	ID          int32           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
}

// ExpenseInput is the add and edit form
type ExpenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        string          `json:"date,omitempty"`
}

// HistoryEntry is one month of the budget history table
type HistoryEntry struct {
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	MonthName string          `json:"monthName"`
	Budget    decimal.Decimal `json:"budget"`
	Expenses  decimal.Decimal `json:"expenses"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}

// User is the account returned by register and login
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// toDomain converts for the shared aggregation functions. Dates that do not
// parse are kept as the zero time; they still count toward totals.
func (e Expense) toDomain() *domain.Expense {
	date, _ := time.Parse(domain.ExpenseDateLayout, e.Date)
	return &domain.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Type:        e.Type,
		Date:        date,
	}
}

// Input pre-fills the edit form from an existing expense
func (e Expense) Input() ExpenseInput {
	return ExpenseInput{
		Description: e.Description,
		Amount:      e.Amount,
		Type:        e.Type,
		Date:        e.Date,
	}
}
