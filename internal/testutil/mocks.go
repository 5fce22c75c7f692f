package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	mu       sync.Mutex
	Accounts map[uuid.UUID]*domain.Account
	ByEmail  map[string]*domain.Account

	CreateFn              func(account *domain.Account) (*domain.Account, error)
	GetByIDFn             func(id uuid.UUID) (*domain.Account, error)
	UpdateMonthlyBudgetFn func(id uuid.UUID, amount decimal.Decimal) error
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[uuid.UUID]*domain.Account),
		ByEmail:  make(map[string]*domain.Account),
	}
}

// Create stores a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ByEmail[account.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.Accounts[account.ID] = account
	m.ByEmail[account.Email] = account
	return account, nil
}

// GetByID retrieves an account by ID
func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if account, ok := m.Accounts[id]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetByEmail retrieves an account by email
func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if account, ok := m.ByEmail[email]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// UpdateMonthlyBudget sets the legacy budget field
func (m *MockAccountRepository) UpdateMonthlyBudget(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if m.UpdateMonthlyBudgetFn != nil {
		return m.UpdateMonthlyBudgetFn(id, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.Accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.MonthlyBudget = amount
	return nil
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[account.ID] = account
	m.ByEmail[account.Email] = account
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	mu       sync.Mutex
	Expenses map[int32]*domain.Expense
	NextID   int32

	CreateFn     func(expense *domain.Expense) (*domain.Expense, error)
	GetAllFn     func(accountID uuid.UUID) ([]*domain.Expense, error)
	SumByMonthFn func(accountID uuid.UUID, start, end time.Time) ([]*domain.MonthlyTotal, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create stores a new expense
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *expense
	stored.ID = m.NextID
	stored.CreatedAt = time.Now()
	m.NextID++
	m.Expenses[stored.ID] = &stored
	return &stored, nil
}

func (m *MockExpenseRepository) filter(accountID uuid.UUID, keep func(*domain.Expense) bool) []*domain.Expense {
	result := make([]*domain.Expense, 0)
	for _, e := range m.Expenses {
		if e.AccountID == accountID && keep(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// GetAllByAccount returns the account's expenses ordered by date then id
func (m *MockExpenseRepository) GetAllByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Expense, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(accountID, func(*domain.Expense) bool { return true }), nil
}

// GetByDateRange returns the account's expenses with start <= date < end
func (m *MockExpenseRepository) GetByDateRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(accountID, func(e *domain.Expense) bool {
		return !e.Date.Before(start) && e.Date.Before(end)
	}), nil
}

// Update replaces an owned expense
func (m *MockExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Expenses[expense.ID]
	if !ok || existing.AccountID != expense.AccountID {
		return nil, domain.ErrExpenseNotFound
	}
	updated := *expense
	updated.CreatedAt = existing.CreatedAt
	m.Expenses[expense.ID] = &updated
	return &updated, nil
}

// Delete removes an owned expense
func (m *MockExpenseRepository) Delete(ctx context.Context, accountID uuid.UUID, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Expenses[id]
	if !ok || existing.AccountID != accountID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// SumByMonth totals the account's expenses per UTC calendar month
func (m *MockExpenseRepository) SumByMonth(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*domain.MonthlyTotal, error) {
	if m.SumByMonthFn != nil {
		return m.SumByMonthFn(accountID, start, end)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[domain.Period]decimal.Decimal)
	for _, e := range m.filter(accountID, func(e *domain.Expense) bool {
		return !e.Date.Before(start) && e.Date.Before(end)
	}) {
		p := domain.PeriodOf(e.Date)
		totals[p] = totals[p].Add(e.Amount)
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

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) *domain.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == 0 {
		expense.ID = m.NextID
		m.NextID++
	}
	m.Expenses[expense.ID] = expense
	return expense
}

// Count returns the number of stored expenses
func (m *MockExpenseRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Expenses)
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	mu      sync.Mutex
	Budgets map[uuid.UUID]map[domain.Period]*domain.MonthlyBudget
	NextID  int32

	UpsertFn   func(budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error)
	GetRangeFn func(accountID uuid.UUID, from, to domain.Period) ([]*domain.MonthlyBudget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]map[domain.Period]*domain.MonthlyBudget),
		NextID:  1,
	}
}

// Upsert inserts or overwrites the budget of a period
func (m *MockBudgetRepository) Upsert(ctx context.Context, budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	periods := m.Budgets[budget.AccountID]
	if periods == nil {
		periods = make(map[domain.Period]*domain.MonthlyBudget)
		m.Budgets[budget.AccountID] = periods
	}

	key := domain.Period{Year: budget.Year, Month: budget.Month}
	now := time.Now()
	if existing, ok := periods[key]; ok {
		existing.Amount = budget.Amount
		existing.UpdatedAt = now
		stored := *existing
		return &stored, nil
	}

	stored := *budget
	stored.ID = m.NextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.NextID++
	periods[key] = &stored
	result := stored
	return &result, nil
}

// GetByPeriod retrieves the budget of one period
func (m *MockBudgetRepository) GetByPeriod(ctx context.Context, accountID uuid.UUID, year, month int) (*domain.MonthlyBudget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if budget, ok := m.Budgets[accountID][domain.Period{Year: year, Month: month}]; ok {
		stored := *budget
		return &stored, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetRange returns budgets with from <= period <= to, oldest first
func (m *MockBudgetRepository) GetRange(ctx context.Context, accountID uuid.UUID, from, to domain.Period) ([]*domain.MonthlyBudget, error) {
	if m.GetRangeFn != nil {
		return m.GetRangeFn(accountID, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.MonthlyBudget, 0)
	for p, budget := range m.Budgets[accountID] {
		if p.Index() >= from.Index() && p.Index() <= to.Index() {
			stored := *budget
			result = append(result, &stored)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Year*12+result[i].Month < result[j].Year*12+result[j].Month
	})
	return result, nil
}

// Count returns the number of stored budget rows for an account
func (m *MockBudgetRepository) Count(accountID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Budgets[accountID])
}

// PublishedEvent is one recorded Publish call
type PublishedEvent struct {
	AccountID uuid.UUID
	Event     websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(accountID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{AccountID: accountID, Event: event})
}

// Types returns the recorded event types in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
