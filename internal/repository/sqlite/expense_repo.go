package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, account_id, description, amount, type, date, created_at`

// ExpenseRepository implements domain.ExpenseRepository using SQLite
type ExpenseRepository struct {
	db *sql.DB
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Create appends an expense to the account's ledger
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO expenses (account_id, description, amount, type, date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+expenseColumns,
		expense.AccountID.String(), expense.Description, expense.Amount.String(), expense.Type, formatTime(expense.Date),
	)
	created, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return created, nil
}

// GetAllByAccount returns the account's expenses ordered by date then id
func (r *ExpenseRepository) GetAllByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE account_id = ?
		ORDER BY date, id`,
		accountID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collectExpenses(rows)
}

// GetByDateRange returns the account's expenses with start <= date < end
func (r *ExpenseRepository) GetByDateRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE account_id = ? AND date >= ? AND date < ?
		ORDER BY date, id`,
		accountID.String(), formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses by date range: %w", err)
	}
	return collectExpenses(rows)
}

// Update replaces the fields of an expense owned by the account
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE expenses SET description = ?, amount = ?, type = ?, date = ?
		WHERE account_id = ? AND id = ?
		RETURNING `+expenseColumns,
		expense.Description, expense.Amount.String(), expense.Type, formatTime(expense.Date),
		expense.AccountID.String(), expense.ID,
	)
	updated, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

// Delete removes an expense owned by the account
func (r *ExpenseRepository) Delete(ctx context.Context, accountID uuid.UUID, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE account_id = ? AND id = ?`, accountID.String(), id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SumByMonth totals the account's expenses per UTC calendar month, oldest first.
// Amounts are summed as decimals rather than by SQLite's floating point SUM.
func (r *ExpenseRepository) SumByMonth(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*domain.MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(substr(date, 1, 4) AS INTEGER), CAST(substr(date, 6, 2) AS INTEGER), amount
		FROM expenses
		WHERE account_id = ? AND date >= ? AND date < ?`,
		accountID.String(), formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by month: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.Period]decimal.Decimal)
	for rows.Next() {
		var (
			period domain.Period
			amount string
		)
		if err := rows.Scan(&period.Year, &period.Month, &amount); err != nil {
			return nil, fmt.Errorf("scan monthly amount: %w", err)
		}
		d, err := parseDecimal(amount)
		if err != nil {
			return nil, err
		}
		totals[period] = totals[period].Add(d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum expenses by month: %w", err)
	}

	result := make([]*domain.MonthlyTotal, 0, len(totals))
	for p, total := range totals {
		result = append(result, &domain.MonthlyTotal{Year: p.Year, Month: p.Month, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Year*12+result[i].Month < result[j].Year*12+result[j].Month
	})
	return result, nil
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		accountID, amount, date, createdAt string
		expense                            domain.Expense
		err                                error
	)
	if err = row.Scan(&expense.ID, &accountID, &expense.Description, &amount, &expense.Type, &date, &createdAt); err != nil {
		return nil, err
	}
	if expense.AccountID, err = parseUUID(accountID); err != nil {
		return nil, err
	}
	if expense.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if expense.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if expense.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &expense, nil
}

func collectExpenses(rows *sql.Rows) ([]*domain.Expense, error) {
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
