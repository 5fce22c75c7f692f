package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInternalError   = errors.New("internal error")
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrExpenseNotFound = fmt.Errorf("expense %w", ErrNotFound)
	ErrBudgetNotFound  = fmt.Errorf("budget %w", ErrNotFound)
	ErrEmailTaken      = fmt.Errorf("email already registered: %w", ErrAlreadyExists)

	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
)

// Validation errors. All of them match ErrInvalidInput with errors.Is.
var (
	ErrNameRequired         = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrNameTooLong          = fmt.Errorf("%w: name exceeds maximum length", ErrInvalidInput)
	ErrEmailRequired        = fmt.Errorf("%w: email is required", ErrInvalidInput)
	ErrInvalidEmail         = fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	ErrPasswordRequired     = fmt.Errorf("%w: password is required", ErrInvalidInput)
	ErrPasswordTooLong      = fmt.Errorf("%w: password exceeds maximum length", ErrInvalidInput)
	ErrDescriptionRequired  = fmt.Errorf("%w: description is required", ErrInvalidInput)
	ErrDescriptionTooLong   = fmt.Errorf("%w: description exceeds maximum length", ErrInvalidInput)
	ErrCategoryRequired     = fmt.Errorf("%w: type is required", ErrInvalidInput)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	ErrAmountTooPrecise     = fmt.Errorf("%w: amount must have at most 2 decimal places", ErrInvalidInput)
	ErrAmountTooLarge       = fmt.Errorf("%w: amount exceeds 999999999999.99", ErrInvalidInput)
	ErrInvalidBudget        = fmt.Errorf("%w: budget must be zero or positive", ErrInvalidInput)
	ErrBudgetTooPrecise     = fmt.Errorf("%w: budget must have at most 2 decimal places", ErrInvalidInput)
	ErrBudgetTooLarge       = fmt.Errorf("%w: budget exceeds 999999999999.99", ErrInvalidInput)
	ErrInvalidDate          = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	ErrInvalidMonth         = fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	ErrInvalidYear          = fmt.Errorf("%w: year must be between 1900 and 2100", ErrInvalidInput)
	ErrInvalidHistoryLength = fmt.Errorf("%w: months must be between 1 and %d", ErrInvalidInput, MaxHistoryMonths)
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 255
	// bcrypt only reads the first 72 bytes of a password
	MaxPasswordLength = 72
	MinYear           = 1900
	MaxYear           = 2100
)
