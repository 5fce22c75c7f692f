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

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestAccount(accountRepo *testutil.MockAccountRepository) *domain.Account {
	account := &domain.Account{
		ID:    uuid.New(),
		Name:  "Alice",
		Email: uuid.NewString() + "@example.com",
	}
	accountRepo.AddAccount(account)
	return account
}

func newTestExpenseService() (*ExpenseService, *testutil.MockExpenseRepository, *testutil.MockAccountRepository, *testutil.MockEventPublisher) {
	expenseRepo := testutil.NewMockExpenseRepository()
	accountRepo := testutil.NewMockAccountRepository()
	publisher := testutil.NewMockEventPublisher()

	svc := NewExpenseService(expenseRepo, accountRepo)
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return testNow }
	return svc, expenseRepo, accountRepo, publisher
}

func TestAddExpense_Success(t *testing.T) {
	svc, _, accountRepo, publisher := newTestExpenseService()
	account := newTestAccount(accountRepo)

	created, err := svc.AddExpense(context.Background(), account.ID, ExpenseInput{
		Description: " Coffee ",
		Amount:      decimal.NewFromInt(50),
		Type:        "Food",
		Date:        "2025-03-10",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if created.ID == 0 {
		t.Error("Expected an assigned id")
	}
	if created.Description != "Coffee" {
		t.Errorf("Expected trimmed description, got %q", created.Description)
	}
	if !created.Date.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected UTC midnight date, got %v", created.Date)
	}
	if created.AccountID != account.ID {
		t.Errorf("Expected account %s, got %s", account.ID, created.AccountID)
	}

	if len(publisher.Events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(publisher.Events))
	}
	if publisher.Events[0].Event.Type != "expense.created" {
		t.Errorf("Expected expense.created, got %q", publisher.Events[0].Event.Type)
	}
	if publisher.Events[0].AccountID != account.ID {
		t.Error("Expected event to target the owning account")
	}
}

func TestAddExpense_DefaultsDateToNow(t *testing.T) {
	svc, _, accountRepo, _ := newTestExpenseService()
	account := newTestAccount(accountRepo)

	created, err := svc.AddExpense(context.Background(), account.ID, ExpenseInput{
		Description: "Bus",
		Amount:      decimal.NewFromFloat(2.5),
		Type:        "Transport",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !created.Date.Equal(testNow) {
		t.Errorf("Expected date %v, got %v", testNow, created.Date)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	svc, expenseRepo, accountRepo, publisher := newTestExpenseService()
	account := newTestAccount(accountRepo)

	tests := []struct {
		name     string
		input    ExpenseInput
		expected error
	}{
		{"blank description", ExpenseInput{Description: "  ", Amount: decimal.NewFromInt(1), Type: "Food"}, domain.ErrDescriptionRequired},
		{"zero amount", ExpenseInput{Description: "x", Amount: decimal.Zero, Type: "Food"}, domain.ErrInvalidAmount},
		{"negative amount", ExpenseInput{Description: "x", Amount: decimal.NewFromInt(-5), Type: "Food"}, domain.ErrInvalidAmount},
		{"three decimal places", ExpenseInput{Description: "x", Amount: decimal.RequireFromString("0.001"), Type: "Food"}, domain.ErrAmountTooPrecise},
		{"too large", ExpenseInput{Description: "x", Amount: decimal.New(1, 12), Type: "Food"}, domain.ErrAmountTooLarge},
		{"blank type", ExpenseInput{Description: "x", Amount: decimal.NewFromInt(1), Type: ""}, domain.ErrCategoryRequired},
		{"bad date", ExpenseInput{Description: "x", Amount: decimal.NewFromInt(1), Type: "Food", Date: "15/03/2025"}, domain.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExpense(context.Background(), account.ID, tt.input)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}

	if expenseRepo.Count() != 0 {
		t.Errorf("Expected no stored expenses, got %d", expenseRepo.Count())
	}
	if len(publisher.Events) != 0 {
		t.Errorf("Expected no events, got %d", len(publisher.Events))
	}
}

func TestAddExpense_UnknownAccount(t *testing.T) {
	svc, _, _, _ := newTestExpenseService()

	_, err := svc.AddExpense(context.Background(), uuid.New(), ExpenseInput{
		Description: "x", Amount: decimal.NewFromInt(1), Type: "Food",
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedger_TotalsFollowAppendAndRemove(t *testing.T) {
	svc, _, accountRepo, _ := newTestExpenseService()
	account := newTestAccount(accountRepo)
	ctx := context.Background()

	var ids []int32
	for _, amount := range []int64{10, 20, 30} {
		e, err := svc.AddExpense(ctx, account.ID, ExpenseInput{Description: "x", Amount: decimal.NewFromInt(amount), Type: "Other"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		ids = append(ids, e.ID)
	}

	if err := svc.DeleteExpense(ctx, account.ID, ids[1]); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expenses, err := svc.GetExpenses(ctx, account.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("Expected 2 expenses, got %d", len(expenses))
	}
	if total := TotalExpenses(expenses); !total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected total 40, got %s", total)
	}
}

func TestGetExpensesByMonth_Boundaries(t *testing.T) {
	svc, expenseRepo, accountRepo, _ := newTestExpenseService()
	account := newTestAccount(accountRepo)
	other := newTestAccount(accountRepo)

	dates := []time.Time{
		time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		expenseRepo.AddExpense(&domain.Expense{AccountID: account.ID, Description: "x", Amount: decimal.NewFromInt(1), Type: "Food", Date: d})
	}
	expenseRepo.AddExpense(&domain.Expense{AccountID: other.ID, Description: "y", Amount: decimal.NewFromInt(1), Type: "Food", Date: dates[1]})

	period, expenses, err := svc.GetExpensesByMonth(context.Background(), account.ID, 3, 2025)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if period.Month != 3 || period.Year != 2025 {
		t.Errorf("Expected 2025-03, got %d-%d", period.Year, period.Month)
	}
	if len(expenses) != 2 {
		t.Fatalf("Expected 2 expenses in March, got %d", len(expenses))
	}
	for _, e := range expenses {
		if e.AccountID != account.ID {
			t.Error("Expected only the account's own expenses")
		}
	}
}

func TestGetExpensesByMonth_DefaultsToCurrentPeriod(t *testing.T) {
	svc, _, accountRepo, _ := newTestExpenseService()
	account := newTestAccount(accountRepo)

	period, _, err := svc.GetExpensesByMonth(context.Background(), account.ID, 0, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if period.Month != 3 || period.Year != 2025 {
		t.Errorf("Expected current period 2025-03, got %d-%d", period.Year, period.Month)
	}
}

func TestGetExpensesByMonth_InvalidPeriod(t *testing.T) {
	svc, _, accountRepo, _ := newTestExpenseService()
	account := newTestAccount(accountRepo)

	if _, _, err := svc.GetExpensesByMonth(context.Background(), account.ID, 13, 2025); !errors.Is(err, domain.ErrInvalidMonth) {
		t.Errorf("Expected ErrInvalidMonth, got %v", err)
	}
	if _, _, err := svc.GetExpensesByMonth(context.Background(), account.ID, 1, 1800); !errors.Is(err, domain.ErrInvalidYear) {
		t.Errorf("Expected ErrInvalidYear, got %v", err)
	}
}

func TestUpdateExpense(t *testing.T) {
	svc, expenseRepo, accountRepo, publisher := newTestExpenseService()
	account := newTestAccount(accountRepo)
	intruder := newTestAccount(accountRepo)

	existing := expenseRepo.AddExpense(&domain.Expense{
		AccountID: account.ID, Description: "Cinema", Amount: decimal.NewFromInt(12), Type: "Entertainment", Date: testNow,
	})

	input := ExpenseInput{Description: "Cinema + popcorn", Amount: decimal.NewFromInt(18), Type: "Entertainment", Date: "2025-03-14"}

	if _, err := svc.UpdateExpense(context.Background(), intruder.ID, existing.ID, input); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("Expected ErrExpenseNotFound for another account, got %v", err)
	}

	updated, err := svc.UpdateExpense(context.Background(), account.ID, existing.ID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.ID != existing.ID {
		t.Errorf("Expected id to be kept, got %d", updated.ID)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(18)) || updated.Description != "Cinema + popcorn" {
		t.Errorf("Expected replaced fields, got %+v", updated)
	}
	if expenseRepo.Count() != 1 {
		t.Errorf("Expected ledger size 1, got %d", expenseRepo.Count())
	}
	if types := publisher.Types(); len(types) != 1 || types[0] != "expense.updated" {
		t.Errorf("Expected one expense.updated event, got %v", types)
	}
}

func TestDeleteExpense_NonexistentLeavesLedgerUnchanged(t *testing.T) {
	svc, expenseRepo, accountRepo, publisher := newTestExpenseService()
	account := newTestAccount(accountRepo)
	intruder := newTestAccount(accountRepo)

	existing := expenseRepo.AddExpense(&domain.Expense{
		AccountID: account.ID, Description: "Coffee", Amount: decimal.NewFromInt(5), Type: "Food", Date: testNow,
	})

	if err := svc.DeleteExpense(context.Background(), account.ID, 9999); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound, got %v", err)
	}
	if err := svc.DeleteExpense(context.Background(), intruder.ID, existing.ID); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound for another account, got %v", err)
	}

	if expenseRepo.Count() != 1 {
		t.Errorf("Expected ledger unchanged, got %d expenses", expenseRepo.Count())
	}
	if len(publisher.Events) != 0 {
		t.Errorf("Expected no events, got %d", len(publisher.Events))
	}

	if err := svc.DeleteExpense(context.Background(), account.ID, existing.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if types := publisher.Types(); len(types) != 1 || types[0] != "expense.deleted" {
		t.Errorf("Expected one expense.deleted event, got %v", types)
	}
}

func TestGetSummary_IncludesEveryCategory(t *testing.T) {
	svc, expenseRepo, accountRepo, _ := newTestExpenseService()
	account := newTestAccount(accountRepo)

	expenseRepo.AddExpense(&domain.Expense{AccountID: account.ID, Description: "Lunch", Amount: decimal.NewFromInt(30), Type: "Food", Date: testNow})
	expenseRepo.AddExpense(&domain.Expense{AccountID: account.ID, Description: "Chips", Amount: decimal.NewFromInt(20), Type: "Snacks", Date: testNow})
	expenseRepo.AddExpense(&domain.Expense{AccountID: account.ID, Description: "Dinner", Amount: decimal.NewFromInt(15), Type: "Food", Date: testNow})

	summary, err := svc.GetSummary(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary["Food"].Equal(decimal.NewFromInt(45)) {
		t.Errorf("Expected Food 45, got %s", summary["Food"])
	}
	if !summary["Snacks"].Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected Snacks 20, got %s", summary["Snacks"])
	}
}
