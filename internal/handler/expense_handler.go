package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense ledger HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// ExpenseRequest represents the add and update expense request body.
// Amount accepts a JSON number or a numeric string.
type ExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        string          `json:"date,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int32   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
}

// ExpenseListResponse is returned by the ledger endpoints
type ExpenseListResponse struct {
	Message  string            `json:"message,omitempty"`
	Month    int               `json:"month,omitempty"`
	Year     int               `json:"year,omitempty"`
	Expenses []ExpenseResponse `json:"expenses"`
}

// ExpenseSummaryResponse maps each category to its total
type ExpenseSummaryResponse struct {
	Summary map[string]float64 `json:"summary"`
}

func toExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.InexactFloat64(),
		Type:        e.Type,
		Date:        e.Date.UTC().Format(domain.ExpenseDateLayout),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toExpenseResponses(expenses []*domain.Expense) []ExpenseResponse {
	result := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = toExpenseResponse(e)
	}
	return result
}

func (r ExpenseRequest) toInput() service.ExpenseInput {
	return service.ExpenseInput{
		Description: r.Description,
		Amount:      r.Amount,
		Type:        r.Type,
		Date:        r.Date,
	}
}

// respondWithLedger re-reads the full ledger after a write. The write and the
// read are separate statements.
func (h *ExpenseHandler) respondWithLedger(ctx context.Context, c echo.Context, accountID uuid.UUID, message string) error {
	expenses, err := h.expenseService.GetExpenses(ctx, accountID)
	if err != nil {
		return handleServiceError(c, err, "fetch expenses")
	}
	return c.JSON(http.StatusOK, ExpenseListResponse{
		Message:  message,
		Expenses: toExpenseResponses(expenses),
	})
}

// AddExpense godoc
// @Summary Add an expense
// @Description Append an expense and return the whole ledger
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense"
// @Success 200 {object} ExpenseListResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /add-expense [post]
func (h *ExpenseHandler) AddExpense(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	ctx := c.Request().Context()
	if _, err := h.expenseService.AddExpense(ctx, accountID, req.toInput()); err != nil {
		return handleServiceError(c, err, "add expense")
	}

	return h.respondWithLedger(ctx, c, accountID, "Expense added successfully!")
}

// GetExpenses godoc
// @Summary List expenses
// @Description List every expense of the account, oldest first
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ExpenseListResponse
// @Failure 401 {object} ProblemDetails
// @Router /get-expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	return h.respondWithLedger(c.Request().Context(), c, accountID, "")
}

// GetExpensesByMonth godoc
// @Summary List expenses of a month
// @Description List the expenses of one UTC calendar month, the current one by default
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year (1900-2100)"
// @Success 200 {object} ExpenseListResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /get-expenses-by-month [get]
func (h *ExpenseHandler) GetExpensesByMonth(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, year, fieldErr := parsePeriodQuery(c)
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	period, expenses, err := h.expenseService.GetExpensesByMonth(c.Request().Context(), accountID, month, year)
	if err != nil {
		return handleServiceError(c, err, "fetch expenses")
	}

	return c.JSON(http.StatusOK, ExpenseListResponse{
		Month:    period.Month,
		Year:     period.Year,
		Expenses: toExpenseResponses(expenses),
	})
}

// UpdateExpense godoc
// @Summary Update an expense
// @Description Replace an owned expense in place and return the whole ledger
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param request body ExpenseRequest true "Expense"
// @Success 200 {object} ExpenseListResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /update-expense/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseExpenseID(c)
	if !ok {
		return NewNotFoundError(c, "Expense not found")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	ctx := c.Request().Context()
	if _, err := h.expenseService.UpdateExpense(ctx, accountID, id, req.toInput()); err != nil {
		return handleServiceError(c, err, "update expense")
	}

	return h.respondWithLedger(ctx, c, accountID, "Expense updated successfully!")
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Remove an owned expense and return the whole ledger
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} ExpenseListResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /delete-expense/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseExpenseID(c)
	if !ok {
		return NewNotFoundError(c, "Expense not found")
	}

	ctx := c.Request().Context()
	if err := h.expenseService.DeleteExpense(ctx, accountID, id); err != nil {
		return handleServiceError(c, err, "delete expense")
	}

	return h.respondWithLedger(ctx, c, accountID, "Expense deleted successfully!")
}

// GetSummary godoc
// @Summary Summarize expenses
// @Description Total every expense by category
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ExpenseSummaryResponse
// @Failure 401 {object} ProblemDetails
// @Router /expense-summary [get]
func (h *ExpenseHandler) GetSummary(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.expenseService.GetSummary(c.Request().Context(), accountID)
	if err != nil {
		return handleServiceError(c, err, "fetch expense summary")
	}

	result := make(map[string]float64, len(summary))
	for category, total := range summary {
		result[category] = total.InexactFloat64()
	}
	return c.JSON(http.StatusOK, ExpenseSummaryResponse{Summary: result})
}

// parseExpenseID reads the :id path parameter. An id that cannot name an
// expense is reported like an unknown one.
func parseExpenseID(c echo.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// parsePeriodQuery reads the optional month and year query parameters; 0 means omitted
func parsePeriodQuery(c echo.Context) (month, year int, fieldErr *ValidationError) {
	var err error
	if month, err = parseOptionalInt(c.QueryParam("month")); err != nil {
		return 0, 0, &ValidationError{Field: "month", Message: "Month must be a number"}
	}
	if year, err = parseOptionalInt(c.QueryParam("year")); err != nil {
		return 0, 0, &ValidationError{Field: "year", Message: "Year must be a number"}
	}
	return month, year, nil
}

func parseOptionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
