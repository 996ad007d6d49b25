package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

// APIService makes raw requests against the game client API.
type APIService struct {
	httpClient *http.Client
}

// NewAPIService creates an APIService. A nil client gets [NewLCUHTTPClient].
func NewAPIService(client *http.Client) *APIService {
	if client == nil {
		client = NewLCUHTTPClient(0)
	}
	return &APIService{httpClient: client}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to path.
func (a *APIService) Get(ctx context.Context, auth models.AuthContext, path string) (*APIResponse, error) {
	return a.Do(ctx, auth, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (a *APIService) Post(ctx context.Context, auth models.AuthContext, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, auth, http.MethodPost, path, data)
}

// Do performs a request and returns the raw response. Non-2xx statuses are not errors.
func (a *APIService) Do(ctx context.Context, auth models.AuthContext, method, path string, data []byte) (*APIResponse, error) {
	if !auth.Connected() {
		return nil, shared.ErrNotConnected
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(auth.BaseURL, "/")+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(LCUUser, auth.Password)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrClientAPI, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
