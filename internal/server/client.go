package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/champr/internal/shared"
)

// ControlClient calls a running control server.
type ControlClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewControlClient creates a client for the server at addr ("host:port" or a URL).
func NewControlClient(addr string, httpClient *http.Client) *ControlClient {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &ControlClient{baseURL: strings.TrimRight(addr, "/"), httpClient: httpClient}
}

// Toggle shows or hides the window.
func (c *ControlClient) Toggle(ctx context.Context) (*ControlResponse, error) {
	return c.do(ctx, http.MethodPost, "/toggle")
}

// Apply writes item sets for the current champion. An empty source uses the selected one.
func (c *ControlClient) Apply(ctx context.Context, source string) (*ControlResponse, error) {
	path := "/apply"
	if source != "" {
		path += "?source=" + url.QueryEscape(source)
	}
	return c.do(ctx, http.MethodPost, path)
}

// Status reports the connection state seen by the running UI.
func (c *ControlClient) Status(ctx context.Context) (*ControlResponse, error) {
	return c.do(ctx, http.MethodGet, "/status")
}

func (c *ControlClient) do(ctx context.Context, method, path string) (*ControlResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: is `champr ui` running? %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	var body ControlResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode %s response (status %d): %w", path, resp.StatusCode, err)
	}
	if !body.OK {
		return &body, fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, body.Error)
	}
	return &body, nil
}
