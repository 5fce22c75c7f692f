package dashboard

import (
	"context"
	"fmt"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Dashboard drives the state store from API calls
type Dashboard struct {
	client *Client
	state  *State
}

// New creates a dashboard over an API client and a state store
func New(client *Client, state *State) *Dashboard {
	return &Dashboard{client: client, state: state}
}

// State returns the store the dashboard updates
func (d *Dashboard) State() *State {
	return d.state
}

// LoadMonth fetches a period's budget and expenses and loads them
func (d *Dashboard) LoadMonth(ctx context.Context, period domain.Period) error {
	var (
		budget   decimal.Decimal
		expenses []Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budget, err = d.client.Budget(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = d.client.ExpensesByMonth(gctx, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load %04d-%02d: %w", period.Year, period.Month, err)
	}

	d.state.Load(period, budget, expenses)
	return nil
}

// AddExpense submits the form as a new expense
func (d *Dashboard) AddExpense(ctx context.Context, input ExpenseInput) error {
	expenses, err := d.client.AddExpense(ctx, input)
	if err != nil {
		return err
	}
	d.state.Add(expenses)
	return nil
}

// StartEdit returns the form contents for editing an expense
func (d *Dashboard) StartEdit(id int32) (ExpenseInput, error) {
	expense, err := d.state.EditStart(id)
	if err != nil {
		return ExpenseInput{}, err
	}
	return expense.Input(), nil
}

// CommitEdit saves the edited expense in place
func (d *Dashboard) CommitEdit(ctx context.Context, input ExpenseInput) error {
	id, ok := d.state.Editing()
	if !ok {
		return ErrNotEditing
	}
	expenses, err := d.client.UpdateExpense(ctx, id, input)
	if err != nil {
		return err
	}
	return d.state.EditCommit(expenses)
}

// DeleteExpense removes an expense
func (d *Dashboard) DeleteExpense(ctx context.Context, id int32) error {
	expenses, err := d.client.DeleteExpense(ctx, id)
	if err != nil {
		return err
	}
	d.state.Delete(id, expenses)
	return nil
}

// SetBudget stores the budget of the period being viewed
func (d *Dashboard) SetBudget(ctx context.Context, amount decimal.Decimal) error {
	budget, err := d.client.SetBudget(ctx, d.state.Period(), amount)
	if err != nil {
		return err
	}
	d.state.SetBudget(budget)
	return nil
}
