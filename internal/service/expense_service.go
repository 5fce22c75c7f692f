package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseService handles the expense ledger of an account
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, accountRepo domain.AccountRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(accountID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(accountID, event)
	}
}

// ExpenseInput holds the fields of a new or replaced expense.
// Date is YYYY-MM-DD (RFC 3339 also accepted); empty means today.
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Type        string
	Date        string
}

func (s *ExpenseService) validate(input ExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	switch tooPrecise, tooLarge := domain.CheckMoney(input.Amount); {
	case tooPrecise:
		return nil, domain.ErrAmountTooPrecise
	case tooLarge:
		return nil, domain.ErrAmountTooLarge
	}

	category := strings.TrimSpace(input.Type)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}

	date := s.now().UTC()
	if strings.TrimSpace(input.Date) != "" {
		parsed, ok := util.ParseDate(input.Date)
		if !ok {
			return nil, domain.ErrInvalidDate
		}
		date = parsed
	}

	return &domain.Expense{
		Description: description,
		Amount:      input.Amount,
		Type:        category,
		Date:        date,
	}, nil
}

func (s *ExpenseService) ensureAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := s.accountRepo.GetByID(ctx, accountID)
	return err
}

// AddExpense appends an expense to the account's ledger
func (s *ExpenseService) AddExpense(ctx context.Context, accountID uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return nil, err
	}

	expense.AccountID = accountID
	created, err := s.expenseRepo.Create(ctx, expense)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("account_id", accountID.String()).
		Int32("expense_id", created.ID).
		Msg("Expense added")

	s.publishEvent(accountID, websocket.ExpenseCreated(created))
	return created, nil
}

// GetExpenses returns every expense of the account ordered by date
func (s *ExpenseService) GetExpenses(ctx context.Context, accountID uuid.UUID) ([]*domain.Expense, error) {
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.expenseRepo.GetAllByAccount(ctx, accountID)
}

// GetExpensesByMonth returns the expenses dated inside one calendar month.
// A zero month or year means the current one.
func (s *ExpenseService) GetExpensesByMonth(ctx context.Context, accountID uuid.UUID, month, year int) (domain.Period, []*domain.Expense, error) {
	period, err := resolvePeriod(month, year, s.now())
	if err != nil {
		return domain.Period{}, nil, err
	}
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return domain.Period{}, nil, err
	}

	expenses, err := s.expenseRepo.GetByDateRange(ctx, accountID, period.Start(), period.End())
	if err != nil {
		return domain.Period{}, nil, err
	}
	return period, expenses, nil
}

// UpdateExpense replaces the fields of an owned expense
func (s *ExpenseService) UpdateExpense(ctx context.Context, accountID uuid.UUID, id int32, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return nil, err
	}

	expense.ID = id
	expense.AccountID = accountID
	updated, err := s.expenseRepo.Update(ctx, expense)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("account_id", accountID.String()).
		Int32("expense_id", id).
		Msg("Expense updated")

	s.publishEvent(accountID, websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense removes an owned expense. Unknown ids return ErrExpenseNotFound.
func (s *ExpenseService) DeleteExpense(ctx context.Context, accountID uuid.UUID, id int32) error {
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, accountID, id); err != nil {
		return err
	}

	log.Info().
		Str("account_id", accountID.String()).
		Int32("expense_id", id).
		Msg("Expense deleted")

	s.publishEvent(accountID, websocket.ExpenseDeleted(map[string]interface{}{"id": id}))
	return nil
}

// GetSummary totals every expense of the account by category
func (s *ExpenseService) GetSummary(ctx context.Context, accountID uuid.UUID) (map[string]decimal.Decimal, error) {
	expenses, err := s.GetExpenses(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return SummarizeByCategory(expenses), nil
}

// resolvePeriod fills omitted (zero) month or year from now and validates the result
func resolvePeriod(month, year int, now time.Time) (domain.Period, error) {
	current := domain.PeriodOf(now)
	if month == 0 {
		month = current.Month
	}
	if year == 0 {
		year = current.Year
	}
	if month < 1 || month > 12 {
		return domain.Period{}, domain.ErrInvalidMonth
	}
	if year < domain.MinYear || year > domain.MaxYear {
		return domain.Period{}, domain.ErrInvalidYear
	}
	return domain.Period{Year: year, Month: month}, nil
}
