// Package pomotodo is a client for the Pomotodo REST API.
package pomotodo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// APIURL is the Pomotodo API endpoint.
	APIURL = "https://api.pomotodo.com/1"

	// StartedAtLayout is the format of Pomo.StartedAt.
	StartedAtLayout = "2006-01-02 15:04:05"
)

// ErrNoAPIKey is returned by every call of a client without a key.
var ErrNoAPIKey = errors.New("pomotodo api key not configured")

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("pomotodo: HTTP %d: %s", err.StatusCode, err.Body)
}

// Client talks to the Pomotodo API with a personal token.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server.
func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		client.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// NewClient creates a client authenticating with token.
func NewClient(token string, options ...Option) *Client {
	client := &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: APIURL,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Account is the authenticated user.
type Account struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	ProExpiresTime string `json:"pro_expires_time"`
}

// Pomo is a logged pomodoro.
type Pomo struct {
	Description string
	StartedAt   time.Time
	Length      time.Duration
}

type resource struct {
	UUID string `json:"uuid"`
}

// Account returns the account of the token owner.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, "/account", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateTodo creates a todo and returns its uuid.
func (c *Client) CreateTodo(ctx context.Context, description string) (string, error) {
	body := map[string]any{"description": description}
	return c.uuidCall(ctx, http.MethodPost, "/todos", body)
}

// FinishTodo marks a todo completed and returns the uuid echoed by the server.
func (c *Client) FinishTodo(ctx context.Context, id string) (string, error) {
	body := map[string]any{"completed": true}
	return c.uuidCall(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id), body)
}

// CreateSubTodo creates a sub-todo under parentID.
func (c *Client) CreateSubTodo(ctx context.Context, description, parentID string) (string, error) {
	body := map[string]any{"description": description}
	return c.uuidCall(ctx, http.MethodPost, "/todos/"+url.PathEscape(parentID)+"/sub_todos", body)
}

// FinishSubTodo marks a sub-todo completed.
func (c *Client) FinishSubTodo(ctx context.Context, parentID, id string) (string, error) {
	body := map[string]any{"uuid": id, "parent_uuid": parentID, "completed": true}
	path := "/todos/" + url.PathEscape(parentID) + "/sub_todos/" + url.PathEscape(id)
	return c.uuidCall(ctx, http.MethodPatch, path, body)
}

// CreatePomo logs a finished pomodoro.
func (c *Client) CreatePomo(ctx context.Context, pomo Pomo) (string, error) {
	body := map[string]any{
		"description": pomo.Description,
		"started_at":  pomo.StartedAt.Format(StartedAtLayout),
		"length":      int(pomo.Length / time.Second),
	}
	id, err := c.uuidCall(ctx, http.MethodPost, "/pomos", body)
	if err != nil {
		return "", fmt.Errorf("create pomo: %w", err)
	}
	return id, nil
}

// ModifyPomo changes the description of a logged pomodoro.
func (c *Client) ModifyPomo(ctx context.Context, id, description string) (string, error) {
	body := map[string]any{"description": description}
	result, err := c.uuidCall(ctx, http.MethodPatch, "/pomos/"+url.PathEscape(id), body)
	if err != nil {
		return "", fmt.Errorf("modify pomo: %w", err)
	}
	return result, nil
}

func (c *Client) uuidCall(ctx context.Context, method, path string, body any) (string, error) {
	var result resource
	if err := c.do(ctx, method, path, body, &result); err != nil {
		return "", err
	}
	return result.UUID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	if c.token == "" {
		return ErrNoAPIKey
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
