// Package financeapi implements the service.Service interface over the finance tracker HTTP API.
package financeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/authhttp"
	"fintrack/internal/config"
	"fintrack/internal/router"
	"fintrack/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Client implements service.Service against the finance tracker API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for cfg.APIURL whose requests carry the session token.
// A 401 from any endpoint logs the session out and navigates to login through nav.
func New(cfg *config.Config, tokens authhttp.TokenSource, nav router.Navigator, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg.APIURL, authhttp.NewClient(nil, tokens, nav, logger))
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response has no token")
	}
	return resp.Token, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, creds service.Credentials) (service.User, error) {
	var user service.User
	err := c.do(ctx, http.MethodPost, "/api/register", creds, &user)
	return user, err
}

// ListAccounts implements service.Service.
func (c *Client) ListAccounts(ctx context.Context) ([]service.Account, error) {
	var accounts []service.Account
	err := c.do(ctx, http.MethodGet, "/api/accounts", nil, &accounts)
	return accounts, err
}

// GetAccount implements service.Service.
func (c *Client) GetAccount(ctx context.Context, id int) (service.Account, error) {
	var account service.Account
	err := c.do(ctx, http.MethodGet, "/api/accounts/"+strconv.Itoa(id), nil, &account)
	return account, err
}

// CreateAccount implements service.Service.
func (c *Client) CreateAccount(ctx context.Context, a service.NewAccount) (service.Account, error) {
	var account service.Account
	err := c.do(ctx, http.MethodPost, "/api/accounts", a, &account)
	return account, err
}

// DeleteAccount implements service.Service.
func (c *Client) DeleteAccount(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/accounts/"+strconv.Itoa(id), nil, nil)
}

// ListTransactions implements service.Service.
func (c *Client) ListTransactions(ctx context.Context, accountID int) ([]service.Transaction, error) {
	var txs []service.Transaction
	err := c.do(ctx, http.MethodGet, "/api/accounts/"+strconv.Itoa(accountID)+"/transactions", nil, &txs)
	return txs, err
}

// CreateTransaction implements service.Service.
func (c *Client) CreateTransaction(ctx context.Context, accountID int, tx service.NewTransaction) (service.Transaction, error) {
	var created service.Transaction
	err := c.do(ctx, http.MethodPost, "/api/accounts/"+strconv.Itoa(accountID)+"/transactions", tx, &created)
	return created, err
}

// ListCategories implements service.Service.
func (c *Client) ListCategories(ctx context.Context) ([]service.Category, error) {
	var categories []service.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories)
	return categories, err
}

// CreateCategory implements service.Service.
func (c *Client) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	var category service.Category
	err := c.do(ctx, http.MethodPost, "/api/categories", map[string]string{"name": name}, &category)
	return category, err
}

// DeleteCategory implements service.Service.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+strconv.Itoa(id), nil, nil)
}

// Statistics implements service.Service.
func (c *Client) Statistics(ctx context.Context, q service.StatisticsQuery) (service.Statistics, error) {
	v := url.Values{}
	v.Set("from", q.From)
	v.Set("to", q.To)
	if q.AccountID != nil {
		v.Set("account_id", strconv.Itoa(*q.AccountID))
	}

	var stats service.Statistics
	err := c.do(ctx, http.MethodGet, "/api/statistics?"+v.Encode(), nil, &stats)
	return stats, err
}

// ListRates implements service.Service.
func (c *Client) ListRates(ctx context.Context) ([]service.Rate, error) {
	var rates []service.Rate
	err := c.do(ctx, http.MethodGet, "/api/rates", nil, &rates)
	return rates, err
}

// do sends one request. in, when non-nil, is encoded as the JSON body;
// out, when non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from %s: %w", path, err)
	}
	return nil
}

// statusError maps an error response to a service error.
func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(data, &payload); err != nil {
		payload.Error = strings.TrimSpace(string(data))
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return service.ErrUnauthorized
	case http.StatusNotFound:
		return service.ErrNotFound
	case http.StatusConflict:
		return service.ErrConflict
	}
	return &service.APIError{Status: resp.StatusCode, Message: payload.Error}
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return err
}
