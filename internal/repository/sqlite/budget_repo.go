package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
)

const budgetColumns = `id, account_id, year, month, amount, created_at, updated_at`

// BudgetRepository implements domain.BudgetRepository using SQLite
type BudgetRepository struct {
	db *sql.DB
}

// Upsert inserts the period's budget or overwrites the existing amount
func (r *BudgetRepository) Upsert(ctx context.Context, budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO monthly_budgets (account_id, year, month, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id, year, month)
		DO UPDATE SET amount = excluded.amount, updated_at = ?
		RETURNING `+budgetColumns,
		budget.AccountID.String(), budget.Year, budget.Month, budget.Amount.String(), formatTime(time.Now()),
	)
	saved, err := scanBudget(row)
	if err != nil {
		return nil, fmt.Errorf("upsert budget: %w", err)
	}
	return saved, nil
}

// GetByPeriod returns the budget of one period
func (r *BudgetRepository) GetByPeriod(ctx context.Context, accountID uuid.UUID, year, month int) (*domain.MonthlyBudget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+budgetColumns+` FROM monthly_budgets
		WHERE account_id = ? AND year = ? AND month = ?`,
		accountID.String(), year, month,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return budget, nil
}

// GetRange returns the budgets with from <= period <= to, oldest first
func (r *BudgetRepository) GetRange(ctx context.Context, accountID uuid.UUID, from, to domain.Period) ([]*domain.MonthlyBudget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+budgetColumns+` FROM monthly_budgets
		WHERE account_id = ?
		  AND (year * 12 + month - 1) BETWEEN ? AND ?
		ORDER BY year, month`,
		accountID.String(), from.Index(), to.Index(),
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.MonthlyBudget, 0)
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		result = append(result, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanBudget(row rowScanner) (*domain.MonthlyBudget, error) {
	var (
		accountID, amount, createdAt, updatedAt string
		budget                                  domain.MonthlyBudget
		err                                     error
	)
	if err = row.Scan(&budget.ID, &accountID, &budget.Year, &budget.Month, &amount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if budget.AccountID, err = parseUUID(accountID); err != nil {
		return nil, err
	}
	if budget.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if budget.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if budget.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &budget, nil
}
