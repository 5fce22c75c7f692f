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
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, email, password_hash, monthly_budget, created_at, updated_at`

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	budget, err := decimalToPgNumeric(account.MonthlyBudget)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly budget: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, monthly_budget)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		uuidToPg(account.ID), account.Name, account.Email, account.PasswordHash, budget,
	)
	created, err := scanAccount(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, uuidToPg(id))
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// GetByEmail retrieves an account by its normalized email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

// UpdateMonthlyBudget sets the legacy budget mirror on the account row
func (r *AccountRepository) UpdateMonthlyBudget(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	budget, err := decimalToPgNumeric(amount)
	if err != nil {
		return fmt.Errorf("invalid monthly budget: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET monthly_budget = $2, updated_at = NOW()
		WHERE id = $1`,
		uuidToPg(id), budget,
	)
	if err != nil {
		return fmt.Errorf("update monthly budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		id      pgtype.UUID
		budget  pgtype.Numeric
		account domain.Account
	)
	if err := row.Scan(&id, &account.Name, &account.Email, &account.PasswordHash, &budget, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, err
	}
	account.ID = pgToUUID(id)
	account.MonthlyBudget = pgNumericToDecimal(budget)
	return &account, nil
}
