package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response.
// Error is the flat message for clients that read only one field: the first
// field error when there are any, the detail otherwise.
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Error    string            `json:"error"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://spendwise.app/errors/validation"
	ErrorTypeNotFound     = "https://spendwise.app/errors/not-found"
	ErrorTypeUnauthorized = "https://spendwise.app/errors/unauthorized"
	ErrorTypeConflict     = "https://spendwise.app/errors/conflict"
	ErrorTypeInternal     = "https://spendwise.app/errors/internal"
)

func problem(c echo.Context, status int, errorType, title, detail string, errs []ValidationError) error {
	message := detail
	if len(errs) > 0 {
		message = errs[0].Message
	}
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
		Error:    message,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, http.StatusBadRequest, ErrorTypeValidation, "Validation Error", detail, errors)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail, nil)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail, nil)
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeConflict, "Conflict", detail, nil)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail, nil)
}

// fieldErrors maps validation sentinels to the request field they concern
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Name must be 255 characters or less"},
	{domain.ErrEmailRequired, "email", "Email is required"},
	{domain.ErrInvalidEmail, "email", "Email is not valid"},
	{domain.ErrPasswordRequired, "password", "Password is required"},
	{domain.ErrPasswordTooLong, "password", "Password must be 72 characters or less"},
	{domain.ErrDescriptionRequired, "description", "Description is required"},
	{domain.ErrDescriptionTooLong, "description", "Description must be 255 characters or less"},
	{domain.ErrInvalidAmount, "amount", "Amount must be greater than zero"},
	{domain.ErrAmountTooPrecise, "amount", "Amount must have at most 2 decimal places"},
	{domain.ErrAmountTooLarge, "amount", "Amount must be at most 999999999999.99"},
	{domain.ErrCategoryRequired, "type", "Type is required"},
	{domain.ErrInvalidDate, "date", "Must be in YYYY-MM-DD format"},
	{domain.ErrInvalidBudget, "budget", "Budget must be zero or positive"},
	{domain.ErrBudgetTooPrecise, "budget", "Budget must have at most 2 decimal places"},
	{domain.ErrBudgetTooLarge, "budget", "Budget must be at most 999999999999.99"},
	{domain.ErrInvalidMonth, "month", "Month must be between 1 and 12"},
	{domain.ErrInvalidYear, "year", "Year must be between 1900 and 2100"},
	{domain.ErrInvalidHistoryLength, "months", "Months must be between 1 and 24"},
}

// handleServiceError writes the response for an error returned by a service
func handleServiceError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		for _, fe := range fieldErrors {
			if errors.Is(err, fe.err) {
				return NewValidationError(c, "Validation failed", []ValidationError{{Field: fe.field, Message: fe.message}})
			}
		}
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, "Expense not found")
	case errors.Is(err, domain.ErrAccountNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrEmailTaken):
		return NewConflictError(c, "Email already registered.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return NewUnauthorizedError(c, "Invalid email or password.")
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action+".")
}
