// Package client is a thin HTTP client for the transactions API. It attaches
// the caller's bearer credential and never retries.
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
	"strings"
	"time"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

var (
	ErrNoCredential = errors.New("user not authenticated")
	ErrServer       = errors.New("server error")
)

const basePath = "/api/transactions"

// TokenSource returns the current session's bearer token, or "" when signed out.
type TokenSource func(ctx context.Context) (string, error)

func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

// NewTransaction is the body of a create call. A zero Date means now.
type NewTransaction struct {
	Title       string            `json:"title"`
	Amount      float64           `json:"amount"`
	Type        transactions.Type `json:"type"`
	Date        time.Time         `json:"date"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
}

// Changes is the body of an update call; nil fields are not sent.
type Changes struct {
	Title       *string            `json:"title,omitempty"`
	Amount      *float64           `json:"amount,omitempty"`
	Type        *transactions.Type `json:"type,omitempty"`
	Date        *time.Time         `json:"date,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Description *string            `json:"description,omitempty"`
}

// APIError is a non-2xx response. It matches the transactions sentinel for its status.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, k+" "+v)
		}
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest:
		return transactions.ErrValidation
	case e.Status == http.StatusUnauthorized:
		return transactions.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return transactions.ErrForbidden
	case e.Status == http.StatusNotFound:
		return transactions.ErrNotFound
	case e.Status >= http.StatusInternalServerError:
		return ErrServer
	}
	return nil
}

type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]transactions.Transaction, error) {
	var out []transactions.Transaction
	if err := c.do(ctx, http.MethodGet, basePath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []transactions.Transaction{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, in NewTransaction) (transactions.Transaction, error) {
	if in.Date.IsZero() {
		in.Date = c.now()
	}
	var out transactions.Transaction
	err := c.do(ctx, http.MethodPost, basePath, in, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id string, ch Changes) (transactions.Transaction, error) {
	var out transactions.Transaction
	err := c.do(ctx, http.MethodPut, basePath+"/"+url.PathEscape(id), ch, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, basePath+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoCredential, err)
	}
	if strings.TrimSpace(token) == "" {
		return ErrNoCredential
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Fields = payload.Fields
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
