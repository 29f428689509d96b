// Package client is a typed HTTP client for the ledger API. Every call
// returns either its payload or an error; nothing fails silently.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

// ErrNotFound matches an *APIError with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string // "error" field of a JSON error body
	Description string // error_description, or the raw text body
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ledger api: %d %s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("ledger api: %d: %s", e.StatusCode, e.Description)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API at baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Create(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	var out models.LedgerEntry
	err := c.do(ctx, http.MethodPost, "/ledger", entry, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error) {
	var out models.LedgerEntry
	err := c.do(ctx, http.MethodPut, "/ledger/"+url.PathEscape(id), entry, &out)
	return out, err
}

func (c *Client) List(ctx context.Context) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	err := c.do(ctx, http.MethodGet, "/ledger", nil, &out)
	return out, err
}

func (c *Client) ListByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	err := c.do(ctx, http.MethodGet, "/ledger/"+url.PathEscape(accountName), nil, &out)
	return out, err
}

func (c *Client) Summary(ctx context.Context, accountName string) (models.Summary, error) {
	var out models.Summary
	err := c.do(ctx, http.MethodGet, "/ledger/summary/"+url.PathEscape(accountName), nil, &out)
	return out, err
}

// CreateBulk posts the batch and returns how many entries were inserted.
func (c *Client) CreateBulk(ctx context.Context, entries []models.LedgerEntry) (int, error) {
	resp, err := c.send(ctx, http.MethodPost, "/ledger/bulk", entries)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if v := resp.Header.Get("X-Inserted-Count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	}
	return len(entries), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns non-2xx responses into *APIError.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return resp, nil
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Code = body.Error
		apiErr.Description = body.ErrorDescription
		return apiErr
	}

	apiErr.Description = strings.TrimSpace(string(data))
	if apiErr.Description == "" {
		apiErr.Description = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
