// Package api is the client for the remote expense REST service. Requests
// are single-shot: no retry, no pagination, the full collection every time.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gider/internal/core"
	"gider/internal/ports"
)

// maxResponseBody caps how much of a response we read; collections here
// are small and an error body never needs more.
const maxResponseBody = 4 << 20

// TokenSource supplies the stored bearer token. It is injected so fetch
// calls never read token state from a global.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// Config holds the remote endpoint settings.
type Config struct {
	BaseURL string

	// AuthorizeCategoryList controls whether the category listing carries
	// the bearer header; deployments differ on this endpoint.
	AuthorizeCategoryList bool

	// HTTPClient overrides the default pooled client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL     string
	http        *http.Client
	tokens      TokenSource
	authCatList bool
}

// Ensure interface conformance
var _ ports.Backend = (*Client)(nil)

func New(cfg Config, tokens TokenSource) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("missing API base URL")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if tokens == nil {
		return nil, errors.New("missing token source")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = newPooledHTTPClient()
	}

	return &Client{
		baseURL:     base,
		http:        hc,
		tokens:      tokens,
		authCatList: cfg.AuthorizeCategoryList,
	}, nil
}

// newPooledHTTPClient builds an HTTP client with connection pooling and
// explicit timeouts for the remote API.
func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// Login exchanges credentials for a bearer token. The caller persists it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, "login", http.MethodPost, "/api/Auths/Login", false, body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return out.Token, nil
}

// RegisterParams is the payload for account creation.
type RegisterParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (c *Client) Register(ctx context.Context, p RegisterParams) error {
	return c.call(ctx, "register", http.MethodPost, "/api/Auths/Register", false, p, nil)
}

// ListExpenses implements ports.ExpenseReader.
func (c *Client) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("missing user id")
	}
	var dtos []expenseDTO
	path := "/api/Expense/user/" + url.PathEscape(userID)
	if err := c.call(ctx, "list expenses", http.MethodGet, path, true, nil, &dtos); err != nil {
		return nil, err
	}
	expenses := make([]core.Expense, len(dtos))
	for i, d := range dtos {
		expenses[i] = d.toDomain(ctx)
	}
	return expenses, nil
}

// ListCategories implements ports.CategoryReader.
func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var dtos []categoryDTO
	if err := c.call(ctx, "list categories", http.MethodGet, "/api/Categorys/getall", c.authCatList, nil, &dtos); err != nil {
		return nil, err
	}
	categories := make([]core.Category, len(dtos))
	for i, d := range dtos {
		categories[i] = d.toDomain()
	}
	return categories, nil
}

// CreateExpense implements ports.ExpenseWriter. Validation runs before
// any network traffic.
func (c *Client) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	var out struct {
		ID wireID `json:"id"`
	}
	if err := c.call(ctx, "create expense", http.MethodPost, "/api/Expense", true, expenseToWire(e), &out); err != nil {
		return "", err
	}
	return string(out.ID), nil
}

func (c *Client) UpdateExpense(ctx context.Context, e core.Expense) error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("missing expense id")
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return c.call(ctx, "update expense", http.MethodPut, "/api/Expense/update", true, expenseToWire(e), nil)
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("missing expense id")
	}
	return c.call(ctx, "delete expense", http.MethodDelete, "/api/Expense/"+url.PathEscape(id), true, nil, nil)
}

// CreateCategory implements ports.CategoryWriter.
func (c *Client) CreateCategory(ctx context.Context, cat core.Category) (string, error) {
	if err := cat.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	body := map[string]string{"categoryName": cat.Name}
	var out struct {
		ID wireID `json:"id"`
	}
	if err := c.call(ctx, "create category", http.MethodPost, "/api/Categorys/add", true, body, &out); err != nil {
		return "", err
	}
	return string(out.ID), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("missing category id")
	}
	return c.call(ctx, "delete category", http.MethodDelete, "/api/Categorys/"+url.PathEscape(id), true, nil, nil)
}

// CreateCategoryLimit implements ports.LimitWriter.
func (c *Client) CreateCategoryLimit(ctx context.Context, l core.CategoryLimit) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return c.call(ctx, "create category limit", http.MethodPost, "/api/CategoryLimits", true, limitToWire(l), nil)
}

// call performs one round trip. GET failures map to FetchError, write
// failures to MutationError, both carrying any server-supplied message.
// A missing stored token is passed through unwrapped so callers can route
// to the authentication-required state.
func (c *Client) call(ctx context.Context, op, method, path string, authorized bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authorized {
		tok, err := c.tokens.Get(ctx)
		if err != nil {
			return fmt.Errorf("%s: bearer token: %w", op, err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return failure(op, method, 0, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return failure(op, method, resp.StatusCode, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(op, method, resp.StatusCode, serverMessage(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

func failure(op, method string, status int, message string) error {
	if method == http.MethodGet {
		return &FetchError{Op: op, Status: status, Message: message}
	}
	return &MutationError{Op: op, Status: status, Message: message}
}

// serverMessage pulls the optional {"message": ...} text out of an error
// body. Anything else is discarded; raw bodies never reach the user.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}
