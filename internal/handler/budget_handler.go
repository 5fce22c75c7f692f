package handler

import (
	"net/http"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles monthly budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// SetBudgetRequest represents the set budget request body.
// Month and year default to the current period when omitted.
type SetBudgetRequest struct {
	Budget *decimal.Decimal `json:"budget"`
	Month  int              `json:"month,omitempty"`
	Year   int              `json:"year,omitempty"`
}

// BudgetResponse represents a period's budget in API responses
type BudgetResponse struct {
	Message string  `json:"message,omitempty"`
	Budget  float64 `json:"budget"`
	Month   int     `json:"month"`
	Year    int     `json:"year"`
}

// HistoryEntryResponse represents one month of budget history
type HistoryEntryResponse struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	MonthName string  `json:"monthName"`
	Budget    float64 `json:"budget"`
	Expenses  float64 `json:"expenses"`
	Remaining float64 `json:"remaining"`
	Status    string  `json:"status"`
}

// BudgetHistoryResponse lists history entries, most recent first
type BudgetHistoryResponse struct {
	History []HistoryEntryResponse `json:"history"`
}

// CategoryTotalResponse is one slice of the category chart
type CategoryTotalResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// BudgetStatusResponse is the aggregation of one period.
// UsagePercentage and Tier are omitted when no budget is set.
type BudgetStatusResponse struct {
	Month           int                     `json:"month"`
	Year            int                     `json:"year"`
	Budget          float64                 `json:"budget"`
	Total           float64                 `json:"total"`
	Remaining       float64                 `json:"remaining"`
	UsagePercentage *float64                `json:"usagePercentage,omitempty"`
	Tier            string                  `json:"tier,omitempty"`
	Breakdown       []CategoryTotalResponse `json:"breakdown"`
}

func toBudgetStatusResponse(s *domain.BudgetStatus) BudgetStatusResponse {
	resp := BudgetStatusResponse{
		Month:     s.Month,
		Year:      s.Year,
		Budget:    s.Budget.InexactFloat64(),
		Total:     s.Total.InexactFloat64(),
		Remaining: s.Remaining.InexactFloat64(),
		Tier:      string(s.Tier),
		Breakdown: make([]CategoryTotalResponse, len(s.Breakdown)),
	}
	if s.HasStatus() {
		usage := s.UsagePercentage.Round(2).InexactFloat64()
		resp.UsagePercentage = &usage
	}
	for i, ct := range s.Breakdown {
		resp.Breakdown[i] = CategoryTotalResponse{Category: ct.Category, Amount: ct.Amount.InexactFloat64()}
	}
	return resp
}

// SetBudget godoc
// @Summary Set a monthly budget
// @Description Store the budget of a period, the current one by default, overwriting any previous value
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetBudgetRequest true "Budget"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /set-budget [post]
func (h *BudgetHandler) SetBudget(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Budget == nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "budget", Message: "Budget is required"},
		})
	}

	result, err := h.budgetService.SetBudget(c.Request().Context(), accountID, *req.Budget, req.Month, req.Year)
	if err != nil {
		return handleServiceError(c, err, "set budget")
	}

	return c.JSON(http.StatusOK, BudgetResponse{
		Message: "Budget set successfully!",
		Budget:  result.Budget.InexactFloat64(),
		Month:   result.Month,
		Year:    result.Year,
	})
}

// GetBudget godoc
// @Summary Get a monthly budget
// @Description Return the budget of a period, 0 when unset
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year (1900-2100)"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /get-budget [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, year, fieldErr := parsePeriodQuery(c)
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	result, err := h.budgetService.GetBudget(c.Request().Context(), accountID, month, year)
	if err != nil {
		return handleServiceError(c, err, "fetch budget")
	}

	return c.JSON(http.StatusOK, BudgetResponse{
		Budget: result.Budget.InexactFloat64(),
		Month:  result.Month,
		Year:   result.Year,
	})
}

// GetBudgetHistory godoc
// @Summary Budget history
// @Description Summarize budget and spending of the last n months, most recent first
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months (1-24)" default(6)
// @Success 200 {object} BudgetHistoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /get-budget-history [get]
func (h *BudgetHandler) GetBudgetHistory(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	months, err := parseOptionalInt(c.QueryParam("months"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "months", Message: "Months must be a number"},
		})
	}

	history, err := h.budgetService.GetHistory(c.Request().Context(), accountID, months)
	if err != nil {
		return handleServiceError(c, err, "fetch budget history")
	}

	resp := BudgetHistoryResponse{History: make([]HistoryEntryResponse, len(history))}
	for i, entry := range history {
		resp.History[i] = HistoryEntryResponse{
			Month:     entry.Month,
			Year:      entry.Year,
			MonthName: entry.MonthName,
			Budget:    entry.Budget.InexactFloat64(),
			Expenses:  entry.Expenses.InexactFloat64(),
			Remaining: entry.Remaining.InexactFloat64(),
			Status:    string(entry.Status),
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBudgetStatus godoc
// @Summary Budget status
// @Description Aggregate a period: total, remaining, usage, intensity tier and category breakdown
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year (1900-2100)"
// @Success 200 {object} BudgetStatusResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /budget-status [get]
func (h *BudgetHandler) GetBudgetStatus(c echo.Context) error {
	accountID := middleware.GetAccountID(c)
	if accountID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, year, fieldErr := parsePeriodQuery(c)
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	status, err := h.budgetService.GetStatus(c.Request().Context(), accountID, month, year)
	if err != nil {
		return handleServiceError(c, err, "fetch budget status")
	}

	return c.JSON(http.StatusOK, toBudgetStatusResponse(status))
}
