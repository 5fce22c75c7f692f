package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "spendwise.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func createAccount(t *testing.T, store *Store, email string) *domain.Account {
	t.Helper()
	account, err := store.Accounts().Create(context.Background(), &domain.Account{
		ID:           uuid.New(),
		Name:         "Test",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return account
}

func addExpense(t *testing.T, store *Store, accountID uuid.UUID, amount, category string, date time.Time) *domain.Expense {
	t.Helper()
	expense, err := store.Expenses().Create(context.Background(), &domain.Expense{
		AccountID:   accountID,
		Description: category + " expense",
		Amount:      decimal.RequireFromString(amount),
		Type:        category,
		Date:        date,
	})
	require.NoError(t, err)
	return expense
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spendwise.db")

	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	account := createAccount(t, store, "reopen@example.com")
	require.NoError(t, store.Close())

	store, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer store.Close()

	found, err := store.Accounts().GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "reopen@example.com", found.Email)
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := store.Accounts()

	account := createAccount(t, store, "alice@example.com")
	assert.True(t, account.MonthlyBudget.IsZero())
	assert.False(t, account.CreatedAt.IsZero())

	_, err := repo.Create(ctx, &domain.Account{ID: uuid.New(), Name: "Other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	require.NoError(t, repo.UpdateMonthlyBudget(ctx, account.ID, decimal.RequireFromString("1250.50")))
	updated, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1250.5", updated.MonthlyBudget.String())

	assert.ErrorIs(t, repo.UpdateMonthlyBudget(ctx, uuid.New(), decimal.Zero), domain.ErrAccountNotFound)
}

func TestExpenseRepository_Ledger(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := store.Expenses()
	alice := createAccount(t, store, "alice@example.com")
	bob := createAccount(t, store, "bob@example.com")

	late := addExpense(t, store, alice.ID, "20", "Food", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	early := addExpense(t, store, alice.ID, "10.25", "Transport", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	addExpense(t, store, bob.ID, "99", "Food", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))

	expenses, err := repo.GetAllByAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, early.ID, expenses[0].ID)
	assert.Equal(t, late.ID, expenses[1].ID)
	assert.Equal(t, "10.25", expenses[0].Amount.String())
	assert.Equal(t, time.UTC, expenses[0].Date.Location())

	late.Amount = decimal.NewFromInt(25)
	late.Description = "Dinner"
	updated, err := repo.Update(ctx, late)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", updated.Description)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(25)))

	stolen := *late
	stolen.AccountID = bob.ID
	_, err = repo.Update(ctx, &stolen)
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, bob.ID, early.ID), domain.ErrExpenseNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID, 9999), domain.ErrExpenseNotFound)
	require.NoError(t, repo.Delete(ctx, alice.ID, early.ID))

	expenses, err = repo.GetAllByAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, late.ID, expenses[0].ID)
}

func TestExpenseRepository_MonthBoundaries(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := store.Expenses()
	account := createAccount(t, store, "carol@example.com")

	addExpense(t, store, account.ID, "1", "Food", time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC))
	addExpense(t, store, account.ID, "2", "Food", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	addExpense(t, store, account.ID, "3", "Food", time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC))
	addExpense(t, store, account.ID, "4", "Food", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	feb := domain.Period{Year: 2025, Month: 2}
	expenses, err := repo.GetByDateRange(ctx, account.ID, feb.Start(), feb.End())
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "2", expenses[0].Amount.String())
	assert.Equal(t, "3", expenses[1].Amount.String())
}

func TestExpenseRepository_SumByMonth(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	account := createAccount(t, store, "dave@example.com")

	addExpense(t, store, account.ID, "0.1", "Food", time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC))
	addExpense(t, store, account.ID, "0.2", "Food", time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC))
	addExpense(t, store, account.ID, "40", "Other", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	addExpense(t, store, account.ID, "500", "Other", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))

	from := domain.Period{Year: 2024, Month: 11}
	to := domain.Period{Year: 2025, Month: 1}
	totals, err := store.Expenses().SumByMonth(ctx, account.ID, from.Start(), to.End())
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, 2024, totals[0].Year)
	assert.Equal(t, 12, totals[0].Month)
	assert.Equal(t, "0.3", totals[0].Total.String())
	assert.Equal(t, 2025, totals[1].Year)
	assert.Equal(t, 1, totals[1].Month)
	assert.Equal(t, "40", totals[1].Total.String())
}

func TestBudgetRepository(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := store.Budgets()
	account := createAccount(t, store, "erin@example.com")

	_, err := repo.GetByPeriod(ctx, account.ID, 2025, 1)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)

	first, err := repo.Upsert(ctx, &domain.MonthlyBudget{AccountID: account.ID, Year: 2025, Month: 1, Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, &domain.MonthlyBudget{AccountID: account.ID, Year: 2025, Month: 1, Amount: decimal.NewFromInt(750)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByPeriod(ctx, account.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, "750", got.Amount.String())

	_, err = repo.Upsert(ctx, &domain.MonthlyBudget{AccountID: account.ID, Year: 2024, Month: 12, Amount: decimal.NewFromInt(400)})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &domain.MonthlyBudget{AccountID: account.ID, Year: 2024, Month: 6, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	budgets, err := repo.GetRange(ctx, account.ID, domain.Period{Year: 2024, Month: 8}, domain.Period{Year: 2025, Month: 1})
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, 12, budgets[0].Month)
	assert.Equal(t, 1, budgets[1].Month)
}

func TestBudgetRepository_ScopedByAccount(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	alice := createAccount(t, store, "alice@example.com")
	bob := createAccount(t, store, "bob@example.com")

	_, err := store.Budgets().Upsert(ctx, &domain.MonthlyBudget{AccountID: alice.ID, Year: 2025, Month: 5, Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)

	_, err = store.Budgets().GetByPeriod(ctx, bob.ID, 2025, 5)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}
