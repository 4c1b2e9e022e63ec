package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// ErrNotRunning indicates no instance is listening.
var ErrNotRunning = errors.New("pomotodo is not running")

// Client drives a running instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the instance at address (host:port).
func NewClient(address string) *Client {
	return &Client{
		baseURL:    "http://" + address,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Status returns the current timer state.
func (c *Client) Status(ctx context.Context) (Status, error) {
	return c.call(ctx, http.MethodGet, "/status")
}

// Start begins an interval in the named mode; "" means work.
func (c *Client) Start(ctx context.Context, mode string) (Status, error) {
	path := "/start"
	if mode != "" {
		path += "?mode=" + url.QueryEscape(mode)
	}
	return c.call(ctx, http.MethodPost, path)
}

// Next starts the interval that follows the current one.
func (c *Client) Next(ctx context.Context) (Status, error) {
	return c.call(ctx, http.MethodPost, "/next")
}

// Activate starts a pomodoro when idle and pauses or resumes otherwise.
func (c *Client) Activate(ctx context.Context) (Status, error) {
	return c.call(ctx, http.MethodPost, "/activate")
}

// Pause pauses the timer.
func (c *Client) Pause(ctx context.Context) (Status, error) {
	return c.call(ctx, http.MethodPost, "/pause")
}

// Resume resumes the timer.
func (c *Client) Resume(ctx context.Context) (Status, error) {
	return c.call(ctx, http.MethodPost, "/resume")
}

// Toggle pauses or resumes the timer.
func (c *Client) Toggle(ctx context.Context) (Status, error) {
	return c.call(ctx, http.MethodPost, "/toggle")
}

// Quit resets the timer to idle.
func (c *Client) Quit(ctx context.Context) (Status, error) {
	return c.call(ctx, http.MethodPost, "/quit")
}

func (c *Client) call(ctx context.Context, method, path string) (Status, error) {
	var status Status
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return status, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return status, ErrNotRunning
		}
		return status, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return status, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var failure errorResponse
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return status, errors.New(failure.Error)
		}
		return status, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return status, fmt.Errorf("unmarshal status: %w", err)
	}
	return status, nil
}
