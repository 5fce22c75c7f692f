package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/shopspring/decimal"
)

// FilterAll shows every category in the table
const FilterAll = "All"

var (
	ErrUnknownExpense = errors.New("expense is not in the loaded ledger")
	ErrNotEditing     = errors.New("no expense is being edited")
)

// State is the UI state of the dashboard. It changes only through its
// transitions: Load, Add, EditStart, EditCommit, CancelEdit, Delete.
//
// Responses are applied in the order they are handed to the store, not the
// order their requests were sent: when two loads race, the last response wins.
type State struct {
	mu        sync.RWMutex
	period    domain.Period
	budget    decimal.Decimal
	expenses  []Expense
	editingID int32
	filter    string
}

// NewState creates an empty store showing the given period
func NewState(period domain.Period) *State {
	return &State{period: period, filter: FilterAll}
}

// Load replaces the period, its budget and its expenses
func (s *State) Load(period domain.Period, budget decimal.Decimal, expenses []Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = period
	s.budget = budget
	s.expenses = cloneExpenses(expenses)
	s.editingID = 0
}

// SetBudget updates the budget shown for the current period
func (s *State) SetBudget(budget decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = budget
}

// Add applies the ledger returned after an append. The server returns the
// whole ledger; only the viewed period is kept.
func (s *State) Add(expenses []Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = inPeriod(expenses, s.period)
}

// EditStart marks an expense as being edited and returns it to pre-fill the form
func (s *State) EditStart(id int32) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			s.editingID = id
			return e, nil
		}
	}
	return Expense{}, ErrUnknownExpense
}

// EditCommit applies the ledger returned after the edited expense was saved
func (s *State) EditCommit(expenses []Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == 0 {
		return ErrNotEditing
	}
	s.expenses = inPeriod(expenses, s.period)
	s.editingID = 0
	return nil
}

// CancelEdit leaves edit mode without changes
func (s *State) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = 0
}

// Delete applies the ledger returned after a removal, scoped like Add
func (s *State) Delete(id int32, expenses []Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = inPeriod(expenses, s.period)
	if s.editingID == id {
		s.editingID = 0
	}
}

// SetFilter restricts the table to one category; FilterAll shows everything
func (s *State) SetFilter(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = FilterAll
	}
	s.filter = category
}

// Period returns the period being viewed
func (s *State) Period() domain.Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.period
}

// Editing returns the id of the expense being edited
func (s *State) Editing() (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editingID, s.editingID != 0
}

// Expenses returns a copy of the loaded ledger
func (s *State) Expenses() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneExpenses(s.expenses)
}

// Visible returns the expenses matching the category filter
func (s *State) Visible() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filter == FilterAll {
		return cloneExpenses(s.expenses)
	}
	visible := make([]Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if e.Type == s.filter {
			visible = append(visible, e)
		}
	}
	return visible
}

// Status aggregates the loaded ledger against the budget. The filter does not apply.
func (s *State) Status() *domain.BudgetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expenses := make([]*domain.Expense, len(s.expenses))
	for i, e := range s.expenses {
		expenses[i] = e.toDomain()
	}
	return service.Aggregate(s.period, expenses, s.budget)
}

func cloneExpenses(expenses []Expense) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	return out
}

// inPeriod keeps the expenses dated within period
func inPeriod(expenses []Expense, period domain.Period) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		date, err := time.Parse(domain.ExpenseDateLayout, e.Date)
		if err != nil || domain.PeriodOf(date) != period {
			continue
		}
		out = append(out, e)
	}
	return out
}
