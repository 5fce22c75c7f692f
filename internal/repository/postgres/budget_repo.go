package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `id, account_id, year, month, amount, created_at, updated_at`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Upsert inserts the period's budget or overwrites the existing amount
func (r *BudgetRepository) Upsert(ctx context.Context, budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid budget amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO monthly_budgets (account_id, year, month, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, year, month)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING `+budgetColumns,
		uuidToPg(budget.AccountID), budget.Year, budget.Month, amount,
	)
	saved, err := scanBudget(row)
	if err != nil {
		return nil, fmt.Errorf("upsert budget: %w", err)
	}
	return saved, nil
}

// GetByPeriod returns the budget of one period
func (r *BudgetRepository) GetByPeriod(ctx context.Context, accountID uuid.UUID, year, month int) (*domain.MonthlyBudget, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM monthly_budgets
		WHERE account_id = $1 AND year = $2 AND month = $3`,
		uuidToPg(accountID), year, month,
	)
	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return budget, nil
}

// GetRange returns the budgets with from <= period <= to, oldest first
func (r *BudgetRepository) GetRange(ctx context.Context, accountID uuid.UUID, from, to domain.Period) ([]*domain.MonthlyBudget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+` FROM monthly_budgets
		WHERE account_id = $1
		  AND (year * 12 + month - 1) BETWEEN $2 AND $3
		ORDER BY year, month`,
		uuidToPg(accountID), from.Index(), to.Index(),
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

func scanBudget(row pgx.Row) (*domain.MonthlyBudget, error) {
	var (
		accountID pgtype.UUID
		amount    pgtype.Numeric
		budget    domain.MonthlyBudget
	)
	if err := row.Scan(&budget.ID, &accountID, &budget.Year, &budget.Month, &amount, &budget.CreatedAt, &budget.UpdatedAt); err != nil {
		return nil, err
	}
	budget.AccountID = pgToUUID(accountID)
	budget.Amount = pgNumericToDecimal(amount)
	return &budget, nil
}
