package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, email, password_hash, monthly_budget, created_at, updated_at`

// AccountRepository implements domain.AccountRepository using SQLite
type AccountRepository struct {
	db *sql.DB
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, monthly_budget)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+accountColumns,
		account.ID.String(), account.Name, account.Email, account.PasswordHash, account.MonthlyBudget.String(),
	)
	created, err := scanAccount(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id.String())
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// GetByEmail retrieves an account by its normalized email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

// UpdateMonthlyBudget sets the legacy budget mirror on the account row
func (r *AccountRepository) UpdateMonthlyBudget(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET monthly_budget = ?, updated_at = ?
		WHERE id = ?`,
		amount.String(), formatTime(time.Now()), id.String(),
	)
	if err != nil {
		return fmt.Errorf("update monthly budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		id, budget, createdAt, updatedAt string
		account                          domain.Account
		err                              error
	)
	if err = row.Scan(&id, &account.Name, &account.Email, &account.PasswordHash, &budget, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if account.ID, err = parseUUID(id); err != nil {
		return nil, err
	}
	if account.MonthlyBudget, err = parseDecimal(budget); err != nil {
		return nil, err
	}
	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if account.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &account, nil
}
