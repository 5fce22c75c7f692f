package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BudgetService handles monthly budgets and their aggregation against the ledger
type BudgetService struct {
	budgetRepo     domain.BudgetRepository
	expenseRepo    domain.ExpenseRepository
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, expenseRepo domain.ExpenseRepository, accountRepo domain.AccountRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// BudgetResult is a budget amount resolved to its period
type BudgetResult struct {
	Budget decimal.Decimal `json:"budget"`
	Month  int             `json:"month"`
	Year   int             `json:"year"`
}

// SetBudget stores the budget of a period, overwriting any previous value.
// A zero month or year means the current one. The legacy account budget
// follows only the current period.
func (s *BudgetService) SetBudget(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, month, year int) (*BudgetResult, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidBudget
	}
	switch tooPrecise, tooLarge := domain.CheckMoney(amount); {
	case tooPrecise:
		return nil, domain.ErrBudgetTooPrecise
	case tooLarge:
		return nil, domain.ErrBudgetTooLarge
	}
	now := s.now()
	period, err := resolvePeriod(month, year, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	saved, err := s.budgetRepo.Upsert(ctx, &domain.MonthlyBudget{
		AccountID: accountID,
		Year:      period.Year,
		Month:     period.Month,
		Amount:    amount,
	})
	if err != nil {
		return nil, err
	}

	if util.IsCurrentMonth(period.Year, period.Month, now) {
		if err := s.accountRepo.UpdateMonthlyBudget(ctx, accountID, amount); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("account_id", accountID.String()).
		Int("year", period.Year).
		Int("month", period.Month).
		Str("amount", amount.String()).
		Msg("Budget set")

	result := &BudgetResult{Budget: saved.Amount, Month: saved.Month, Year: saved.Year}
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(accountID, websocket.BudgetUpdated(result))
	}
	return result, nil
}

// GetBudget returns the budget of a period, zero when none is set
func (s *BudgetService) GetBudget(ctx context.Context, accountID uuid.UUID, month, year int) (*BudgetResult, error) {
	period, err := resolvePeriod(month, year, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	amount, err := s.budgetAmount(ctx, accountID, period)
	if err != nil {
		return nil, err
	}
	return &BudgetResult{Budget: amount, Month: period.Month, Year: period.Year}, nil
}

func (s *BudgetService) budgetAmount(ctx context.Context, accountID uuid.UUID, period domain.Period) (decimal.Decimal, error) {
	budget, err := s.budgetRepo.GetByPeriod(ctx, accountID, period.Year, period.Month)
	if errors.Is(err, domain.ErrBudgetNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return budget.Amount, nil
}

// GetHistory summarizes the last n months, current month first.
// n of zero means DefaultHistoryMonths.
func (s *BudgetService) GetHistory(ctx context.Context, accountID uuid.UUID, n int) ([]domain.HistoryEntry, error) {
	if n == 0 {
		n = domain.DefaultHistoryMonths
	}
	if n < 1 || n > domain.MaxHistoryMonths {
		return nil, domain.ErrInvalidHistoryLength
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	current := domain.PeriodOf(s.now())
	oldest := current.AddMonths(-(n - 1))

	var budgets []*domain.MonthlyBudget
	var totals []*domain.MonthlyTotal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.GetRange(gctx, accountID, oldest, current)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.expenseRepo.SumByMonth(gctx, accountID, oldest.Start(), current.End())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	budgetByPeriod := make(map[domain.Period]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		budgetByPeriod[domain.Period{Year: b.Year, Month: b.Month}] = b.Amount
	}
	totalByPeriod := make(map[domain.Period]decimal.Decimal, len(totals))
	for _, t := range totals {
		totalByPeriod[domain.Period{Year: t.Year, Month: t.Month}] = t.Total
	}

	history := make([]domain.HistoryEntry, 0, n)
	year, month := current.Year, current.Month
	for i := 0; i < n; i++ {
		p := domain.Period{Year: year, Month: month}
		history = append(history, NewHistoryEntry(p, budgetByPeriod[p], totalByPeriod[p]))
		year, month = util.PreviousMonth(year, month)
	}
	return history, nil
}

// GetStatus aggregates one period's expenses against its budget
func (s *BudgetService) GetStatus(ctx context.Context, accountID uuid.UUID, month, year int) (*domain.BudgetStatus, error) {
	period, err := resolvePeriod(month, year, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	var budget decimal.Decimal
	var expenses []*domain.Expense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budget, err = s.budgetAmount(gctx, accountID, period)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.GetByDateRange(gctx, accountID, period.Start(), period.End())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Aggregate(period, expenses, budget), nil
}
