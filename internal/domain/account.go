package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a registered user and the owner of all its financial data
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	// MonthlyBudget mirrors the budget of the current calendar month for older clients.
	// Deprecated: read MonthlyBudget rows through BudgetRepository instead.
	MonthlyBudget decimal.Decimal `json:"monthlyBudget"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// Create returns ErrEmailTaken when the email is already registered
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateMonthlyBudget(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}
