package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msg := range e.Fields {
			parts = append(parts, field+": "+msg)
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
	}
	return e.Message
}

// Client calls the tracker API. The session cookie set at login is kept in
// the client's cookie jar; the token from the login body is also sent as a
// Bearer header so sessions work against servers that mark the cookie Secure.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: defaultTimeout},
	}, nil
}

type ledgerResponse struct {
	Message  string    `json:"message"`
	Month    int       `json:"month"`
	Year     int       `json:"year"`
	Expenses []Expense `json:"expenses"`
}

type budgetResponse struct {
	Message string          `json:"message"`
	Budget  decimal.Decimal `json:"budget"`
	Month   int             `json:"month"`
	Year    int             `json:"year"`
}

type authResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

// Register creates an account
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/register", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates and stores the session cookie
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &resp); err != nil {
		return nil, err
	}
	c.setToken(resp.Token)
	return &resp.User, nil
}

// Logout clears the session cookie
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
	c.setToken("")
	return err
}

// SetToken authenticates later requests with a token from an earlier login
func (c *Client) SetToken(token string) {
	c.setToken(token)
}

// Token returns the session token of the last login
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Expenses lists the whole ledger
func (c *Client) Expenses(ctx context.Context) ([]Expense, error) {
	var resp ledgerResponse
	if err := c.do(ctx, http.MethodGet, "/get-expenses", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Expenses, nil
}

// ExpensesByMonth lists one period's expenses
func (c *Client) ExpensesByMonth(ctx context.Context, period domain.Period) ([]Expense, error) {
	var resp ledgerResponse
	if err := c.do(ctx, http.MethodGet, "/get-expenses-by-month", periodQuery(period), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Expenses, nil
}

// AddExpense appends an expense and returns the updated ledger
func (c *Client) AddExpense(ctx context.Context, input ExpenseInput) ([]Expense, error) {
	var resp ledgerResponse
	if err := c.do(ctx, http.MethodPost, "/add-expense", nil, input, &resp); err != nil {
		return nil, err
	}
	return resp.Expenses, nil
}

// UpdateExpense replaces an expense and returns the updated ledger
func (c *Client) UpdateExpense(ctx context.Context, id int32, input ExpenseInput) ([]Expense, error) {
	var resp ledgerResponse
	path := "/update-expense/" + strconv.FormatInt(int64(id), 10)
	if err := c.do(ctx, http.MethodPut, path, nil, input, &resp); err != nil {
		return nil, err
	}
	return resp.Expenses, nil
}

// DeleteExpense removes an expense and returns the updated ledger
func (c *Client) DeleteExpense(ctx context.Context, id int32) ([]Expense, error) {
	var resp ledgerResponse
	path := "/delete-expense/" + strconv.FormatInt(int64(id), 10)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Expenses, nil
}

// Summary totals the whole ledger by category
func (c *Client) Summary(ctx context.Context) (map[string]decimal.Decimal, error) {
	var resp struct {
		Summary map[string]decimal.Decimal `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/expense-summary", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Summary, nil
}

// SetBudget stores a period's budget
func (c *Client) SetBudget(ctx context.Context, period domain.Period, amount decimal.Decimal) (decimal.Decimal, error) {
	var resp budgetResponse
	body := map[string]interface{}{"budget": amount, "month": period.Month, "year": period.Year}
	if err := c.do(ctx, http.MethodPost, "/set-budget", nil, body, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Budget, nil
}

// Budget returns a period's budget, 0 when unset
func (c *Client) Budget(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	var resp budgetResponse
	if err := c.do(ctx, http.MethodGet, "/get-budget", periodQuery(period), nil, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Budget, nil
}

// History returns the last months of budget history, most recent first
func (c *Client) History(ctx context.Context, months int) ([]HistoryEntry, error) {
	var resp struct {
		History []HistoryEntry `json:"history"`
	}
	query := url.Values{"months": {strconv.Itoa(months)}}
	if err := c.do(ctx, http.MethodGet, "/get-budget-history", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

func periodQuery(p domain.Period) url.Values {
	return url.Values{
		"month": {strconv.Itoa(p.Month)},
		"year":  {strconv.Itoa(p.Year)},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	var problem struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	if err := json.Unmarshal(data, &problem); err != nil {
		return apiErr
	}

	switch {
	case problem.Error != "":
		apiErr.Message = problem.Error
	case problem.Detail != "":
		apiErr.Message = problem.Detail
	}
	if len(problem.Errors) > 0 {
		apiErr.Fields = make(map[string]string, len(problem.Errors))
		for _, fe := range problem.Errors {
			apiErr.Fields[fe.Field] = fe.Message
		}
	}
	return apiErr
}
