// Package client is a Go client for the expense tracker API. It replaces
// the browser app's always-available global state with an explicit Session
// that is hydrated from a Store at startup and persisted on every change.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Profile is the public identity of the authenticated user.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Category mirrors the server's category resource.
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Transaction mirrors the server's transaction resource.
type Transaction struct {
	ID          uint            `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

// Filters are the optional transaction listing parameters.
type Filters struct {
	StartDate string
	EndDate   string
	Type      string
	Category  string
}

func (f Filters) values() url.Values {
	v := url.Values{}
	if f.StartDate != "" {
		v.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		v.Set("endDate", f.EndDate)
	}
	if f.Type != "" {
		v.Set("type", f.Type)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	return v
}

// APIError is a non-2xx response decoded into the server's message field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Client talks to one expense tracker server on behalf of one session.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   Store

	mu      sync.Mutex
	session Session
}

// New builds a client and hydrates its session from the store, if any.
func New(baseURL string, store Store) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		store:   store,
	}
	if store != nil {
		s, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("hydrate session: %w", err)
		}
		c.session = s
	}
	return c, nil
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(s Session) error {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	if c.store != nil {
		return c.store.Save(s)
	}
	return nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/users/register", nil, body, nil)
}

// Login authenticates and persists the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/login", nil, body, &s); err != nil {
		return Session{}, err
	}
	if err := c.setSession(s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Logout drops the in-memory session and clears the store.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()
	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.do(ctx, http.MethodGet, "/api/v1/users/profile", nil, nil, &p)
	return p, err
}

// Categories fetches all of the user's categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	err := c.do(ctx, http.MethodGet, "/api/v1/categories/lists", nil, nil, &cats)
	return cats, err
}

// Transactions fetches the user's transactions matching the filters,
// newest first.
func (c *Client) Transactions(ctx context.Context, f Filters) ([]Transaction, error) {
	var txs []Transaction
	err := c.do(ctx, http.MethodGet, "/api/v1/transactions/lists", f.values(), nil, &txs)
	return txs, err
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, name, catType string) (Category, error) {
	var cat Category
	err := c.do(ctx, http.MethodPost, "/api/v1/categories/create", nil,
		map[string]string{"name": name, "type": catType}, &cat)
	return cat, err
}

// UpdateCategory renames or retypes a category; empty fields are left as-is.
func (c *Client) UpdateCategory(ctx context.Context, id uint, name, catType string) (Category, error) {
	var cat Category
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/categories/update/%d", id), nil,
		map[string]string{"name": name, "type": catType}, &cat)
	return cat, err
}

// DeleteCategory removes a category; the server repoints its transactions.
func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/categories/delete/%d", id), nil, nil, nil)
}

// TransactionInput is the create/update payload. Zero-valued fields are
// treated as "no change" by the server on update.
type TransactionInput struct {
	Type        string          `json:"type,omitempty"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (Transaction, error) {
	var tx Transaction
	err := c.do(ctx, http.MethodPost, "/api/v1/transactions/create", nil, in, &tx)
	return tx, err
}

// UpdateTransaction partially updates a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id uint, in TransactionInput) (Transaction, error) {
	var tx Transaction
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/transactions/update/%d", id), nil, in, &tx)
	return tx, err
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/transactions/delete/%d", id), nil, nil, nil)
}

// InitialData is everything the first dashboard render needs.
type InitialData struct {
	Profile      Profile
	Categories   []Category
	Transactions []Transaction
}

// InitialLoad fetches transactions, categories and the profile concurrently
// and waits for all three. The loads are independent; any failure fails the
// whole call.
func (c *Client) InitialLoad(ctx context.Context) (*InitialData, error) {
	var data InitialData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := c.Transactions(ctx, Filters{})
		data.Transactions = txs
		return err
	})
	g.Go(func() error {
		cats, err := c.Categories(ctx)
		data.Categories = cats
		return err
	})
	g.Go(func() error {
		p, err := c.Profile(ctx)
		data.Profile = p
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if s := c.Session(); s.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
