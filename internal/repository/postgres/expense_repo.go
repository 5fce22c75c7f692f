package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id, account_id, description, amount, type, date, created_at`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create appends an expense to the account's ledger
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (account_id, description, amount, type, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+expenseColumns,
		uuidToPg(expense.AccountID), expense.Description, amount, expense.Type, expense.Date.UTC(),
	)
	created, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return created, nil
}

// GetAllByAccount returns the account's expenses ordered by date then id
func (r *ExpenseRepository) GetAllByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE account_id = $1
		ORDER BY date, id`,
		uuidToPg(accountID),
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collectExpenses(rows)
}

// GetByDateRange returns the account's expenses with start <= date < end
func (r *ExpenseRepository) GetByDateRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE account_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, id`,
		uuidToPg(accountID), start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses by date range: %w", err)
	}
	return collectExpenses(rows)
}

// Update replaces the fields of an expense owned by the account
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses SET description = $3, amount = $4, type = $5, date = $6
		WHERE account_id = $1 AND id = $2
		RETURNING `+expenseColumns,
		uuidToPg(expense.AccountID), expense.ID, expense.Description, amount, expense.Type, expense.Date.UTC(),
	)
	updated, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

// Delete removes an expense owned by the account
func (r *ExpenseRepository) Delete(ctx context.Context, accountID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE account_id = $1 AND id = $2`, uuidToPg(accountID), id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SumByMonth totals the account's expenses per UTC calendar month, oldest first
func (r *ExpenseRepository) SumByMonth(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*domain.MonthlyTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			EXTRACT(YEAR FROM date AT TIME ZONE 'UTC')::int AS year,
			EXTRACT(MONTH FROM date AT TIME ZONE 'UTC')::int AS month,
			SUM(amount) AS total
		FROM expenses
		WHERE account_id = $1 AND date >= $2 AND date < $3
		GROUP BY 1, 2
		ORDER BY 1, 2`,
		uuidToPg(accountID), start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by month: %w", err)
	}
	defer rows.Close()

	var result []*domain.MonthlyTotal
	for rows.Next() {
		var (
			mt    domain.MonthlyTotal
			total pgtype.Numeric
		)
		if err := rows.Scan(&mt.Year, &mt.Month, &total); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		mt.Total = pgNumericToDecimal(total)
		result = append(result, &mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum expenses by month: %w", err)
	}
	return result, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		accountID pgtype.UUID
		amount    pgtype.Numeric
		expense   domain.Expense
	)
	if err := row.Scan(&expense.ID, &accountID, &expense.Description, &amount, &expense.Type, &expense.Date, &expense.CreatedAt); err != nil {
		return nil, err
	}
	expense.AccountID = pgToUUID(accountID)
	expense.Amount = pgNumericToDecimal(amount)
	expense.Date = expense.Date.UTC()
	return &expense, nil
}

func collectExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	defer rows.Close()

	result := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		result = append(result, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
