package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type budgetFixture struct {
	svc         *BudgetService
	budgetRepo  *testutil.MockBudgetRepository
	expenseRepo *testutil.MockExpenseRepository
	accountRepo *testutil.MockAccountRepository
	publisher   *testutil.MockEventPublisher
	account     *domain.Account
}

func newBudgetFixture(now time.Time) *budgetFixture {
	f := &budgetFixture{
		budgetRepo:  testutil.NewMockBudgetRepository(),
		expenseRepo: testutil.NewMockExpenseRepository(),
		accountRepo: testutil.NewMockAccountRepository(),
		publisher:   testutil.NewMockEventPublisher(),
	}
	f.svc = NewBudgetService(f.budgetRepo, f.expenseRepo, f.accountRepo)
	f.svc.SetEventPublisher(f.publisher)
	f.svc.now = func() time.Time { return now }
	f.account = newTestAccount(f.accountRepo)
	return f
}

func (f *budgetFixture) addExpense(amount int64, category string, date time.Time) {
	f.expenseRepo.AddExpense(&domain.Expense{
		AccountID:   f.account.ID,
		Description: category + " expense",
		Amount:      decimal.NewFromInt(amount),
		Type:        category,
		Date:        date,
	})
}

func TestSetBudget_GetAfterSetAndOverwrite(t *testing.T) {
	f := newBudgetFixture(testNow)
	ctx := context.Background()

	if _, err := f.svc.SetBudget(ctx, f.account.ID, decimal.NewFromInt(1000), 5, 2025); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got, err := f.svc.GetBudget(ctx, f.account.ID, 5, 2025)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !got.Budget.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected 1000, got %s", got.Budget)
	}

	if _, err := f.svc.SetBudget(ctx, f.account.ID, decimal.NewFromInt(800), 5, 2025); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got, _ = f.svc.GetBudget(ctx, f.account.ID, 5, 2025)
	if !got.Budget.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected overwritten 800, got %s", got.Budget)
	}
	if n := f.budgetRepo.Count(f.account.ID); n != 1 {
		t.Errorf("Expected exactly one budget row, got %d", n)
	}
}

func TestSetBudget_DefaultsToCurrentPeriodAndMirrorsLegacyField(t *testing.T) {
	f := newBudgetFixture(testNow)
	ctx := context.Background()

	result, err := f.svc.SetBudget(ctx, f.account.ID, decimal.NewFromInt(500), 0, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Month != 3 || result.Year != 2025 {
		t.Errorf("Expected 2025-03, got %d-%d", result.Year, result.Month)
	}
	if !f.account.MonthlyBudget.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected legacy budget 500, got %s", f.account.MonthlyBudget)
	}

	if _, err := f.svc.SetBudget(ctx, f.account.ID, decimal.NewFromInt(900), 4, 2025); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !f.account.MonthlyBudget.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected legacy budget untouched by other periods, got %s", f.account.MonthlyBudget)
	}

	if types := f.publisher.Types(); len(types) != 2 || types[0] != "budget.updated" {
		t.Errorf("Expected two budget.updated events, got %v", types)
	}
}

func TestSetBudget_Validation(t *testing.T) {
	f := newBudgetFixture(testNow)
	ctx := context.Background()

	tests := []struct {
		name     string
		amount   decimal.Decimal
		month    int
		year     int
		expected error
	}{
		{"negative", decimal.NewFromInt(-1), 0, 0, domain.ErrInvalidBudget},
		{"three decimal places", decimal.RequireFromString("0.001"), 0, 0, domain.ErrBudgetTooPrecise},
		{"too large", decimal.New(1, 12), 0, 0, domain.ErrBudgetTooLarge},
		{"month 13", decimal.NewFromInt(1), 13, 2025, domain.ErrInvalidMonth},
		{"negative month", decimal.NewFromInt(1), -2, 2025, domain.ErrInvalidMonth},
		{"year too large", decimal.NewFromInt(1), 1, 2101, domain.ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.SetBudget(ctx, f.account.ID, tt.amount, tt.month, tt.year); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}

	if _, err := f.svc.SetBudget(ctx, f.account.ID, decimal.Zero, 0, 0); err != nil {
		t.Errorf("Expected zero budget to be accepted, got %v", err)
	}
	if _, err := f.svc.SetBudget(ctx, f.account.ID, domain.MaxMoney, 0, 0); err != nil {
		t.Errorf("Expected the largest storable budget to be accepted, got %v", err)
	}
}

func TestGetBudget_UnsetIsZero(t *testing.T) {
	f := newBudgetFixture(testNow)

	got, err := f.svc.GetBudget(context.Background(), f.account.ID, 0, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !got.Budget.IsZero() {
		t.Errorf("Expected 0, got %s", got.Budget)
	}
	if got.Month != 3 || got.Year != 2025 {
		t.Errorf("Expected current period, got %d-%d", got.Year, got.Month)
	}
}

func TestGetBudget_UnknownAccount(t *testing.T) {
	f := newBudgetFixture(testNow)

	if _, err := f.svc.GetBudget(context.Background(), uuid.New(), 0, 0); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestGetHistory_JanuaryRollsBackToPreviousAugust(t *testing.T) {
	f := newBudgetFixture(time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := f.svc.SetBudget(ctx, f.account.ID, decimal.NewFromInt(400), 1, 2025); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := f.svc.SetBudget(ctx, f.account.ID, decimal.NewFromInt(300), 11, 2024); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.addExpense(100, "Food", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
	f.addExpense(350, "Transport", time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC))
	f.addExpense(70, "Other", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	f.addExpense(999, "Other", time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC))

	history, err := f.svc.GetHistory(ctx, f.account.ID, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history) != domain.DefaultHistoryMonths {
		t.Fatalf("Expected %d entries, got %d", domain.DefaultHistoryMonths, len(history))
	}

	expected := []struct {
		year, month int
		name        string
	}{
		{2025, 1, "January"},
		{2024, 12, "December"},
		{2024, 11, "November"},
		{2024, 10, "October"},
		{2024, 9, "September"},
		{2024, 8, "August"},
	}
	for i, e := range expected {
		if history[i].Year != e.year || history[i].Month != e.month || history[i].MonthName != e.name {
			t.Errorf("Entry %d: expected %s %d, got %s %d", i, e.name, e.year, history[i].MonthName, history[i].Year)
		}
	}

	if !history[0].Budget.Equal(decimal.NewFromInt(400)) || !history[0].Expenses.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Unexpected January entry: %+v", history[0])
	}
	if !history[0].Remaining.Equal(decimal.NewFromInt(300)) || history[0].Status != domain.HistoryWithinBudget {
		t.Errorf("Expected January within budget with 300 left, got %+v", history[0])
	}
	if !history[2].Remaining.Equal(decimal.NewFromInt(-50)) || history[2].Status != domain.HistoryOverBudget {
		t.Errorf("Expected November over budget by 50, got %+v", history[2])
	}
	if !history[1].Budget.IsZero() || !history[1].Expenses.IsZero() {
		t.Errorf("Expected empty December, got %+v", history[1])
	}
	if !history[5].Expenses.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Expected August total 70 excluding July, got %s", history[5].Expenses)
	}
}

func TestGetHistory_Length(t *testing.T) {
	f := newBudgetFixture(testNow)
	ctx := context.Background()

	for _, n := range []int{-1, domain.MaxHistoryMonths + 1} {
		if _, err := f.svc.GetHistory(ctx, f.account.ID, n); !errors.Is(err, domain.ErrInvalidHistoryLength) {
			t.Errorf("n=%d: expected ErrInvalidHistoryLength, got %v", n, err)
		}
	}

	history, err := f.svc.GetHistory(ctx, f.account.ID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history) != 1 || history[0].Month != 3 {
		t.Errorf("Expected only the current month, got %+v", history)
	}

	history, err = f.svc.GetHistory(ctx, f.account.ID, domain.MaxHistoryMonths)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	last := history[len(history)-1]
	if last.Year != 2023 || last.Month != 4 {
		t.Errorf("Expected oldest entry 2023-04, got %d-%d", last.Year, last.Month)
	}
}

func TestGetHistory_PropagatesStorageError(t *testing.T) {
	f := newBudgetFixture(testNow)
	storageErr := errors.New("connection reset")
	f.expenseRepo.SumByMonthFn = func(uuid.UUID, time.Time, time.Time) ([]*domain.MonthlyTotal, error) {
		return nil, storageErr
	}

	if _, err := f.svc.GetHistory(context.Background(), f.account.ID, 6); !errors.Is(err, storageErr) {
		t.Errorf("Expected storage error, got %v", err)
	}
}

func TestGetStatus_CoffeeScenario(t *testing.T) {
	f := newBudgetFixture(testNow)
	ctx := context.Background()

	if _, err := f.svc.SetBudget(ctx, f.account.ID, decimal.NewFromInt(1000), 0, 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.addExpense(50, "Food", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	f.addExpense(500, "Food", time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC))

	status, err := f.svc.GetStatus(ctx, f.account.ID, 0, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !status.Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected total 50, got %s", status.Total)
	}
	if !status.Remaining.Equal(decimal.NewFromInt(950)) {
		t.Errorf("Expected remaining 950, got %s", status.Remaining)
	}
	if !status.HasStatus() || !status.UsagePercentage.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected usage 5, got %v", status.UsagePercentage)
	}
	if status.Tier != domain.TierSafe {
		t.Errorf("Expected safe tier, got %q", status.Tier)
	}
}

func TestGetStatus_NoBudget(t *testing.T) {
	f := newBudgetFixture(testNow)
	f.addExpense(50, "Food", testNow)

	status, err := f.svc.GetStatus(context.Background(), f.account.ID, 3, 2025)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status.HasStatus() {
		t.Error("Expected no usage without a budget")
	}
	if !status.Remaining.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("Expected remaining -50, got %s", status.Remaining)
	}
}
