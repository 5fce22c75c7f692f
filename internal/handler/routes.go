package handler

import (
	"io/fs"
	"net/http"

	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers bundles the route handlers
type Handlers struct {
	Auth      *AuthHandler
	Expense   *ExpenseHandler
	Budget    *BudgetHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes. The paths match the browser client.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authLimiter *middleware.RateLimiter, h Handlers) {
	e.GET("/health", Health)

	// Auth routes (public, rate limited per client IP)
	limited := e.Group("", middleware.RateLimitByIP(authLimiter))
	limited.POST("/register", h.Auth.Register)
	limited.POST("/login", h.Auth.Login)
	e.POST("/logout", h.Auth.Logout)

	// Ledger and budget routes (protected)
	protected := e.Group("", authMiddleware.Authenticate())
	protected.POST("/add-expense", h.Expense.AddExpense)
	protected.GET("/get-expenses", h.Expense.GetExpenses)
	protected.GET("/get-expenses-by-month", h.Expense.GetExpensesByMonth)
	protected.PUT("/update-expense/:id", h.Expense.UpdateExpense)
	protected.DELETE("/delete-expense/:id", h.Expense.DeleteExpense)
	protected.GET("/expense-summary", h.Expense.GetSummary)

	protected.POST("/set-budget", h.Budget.SetBudget)
	protected.GET("/get-budget", h.Budget.GetBudget)
	protected.GET("/get-budget-history", h.Budget.GetBudgetHistory)
	protected.GET("/budget-status", h.Budget.GetBudgetStatus)

	// WebSocket authenticates on its own: browsers cannot set headers on the upgrade
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}
}

// RegisterStatic serves the embedded browser client at /
func RegisterStatic(e *echo.Echo, assets fs.FS) {
	e.StaticFS("/", assets)
}

// Health godoc
// @Summary Health check
// @Description Report that the process is serving
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
