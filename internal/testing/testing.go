// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/champr/internal/models"
)

// MockClient is a test double for the game client API.
//
// Rune page writes are recorded; every call counts toward Calls.
type MockClient struct {
	mu sync.Mutex

	Perks     []models.Perk
	Champions []models.Champion
	Styles    []models.RuneStyle
	Page      *models.RunePage
	Champion  int64
	Err       error

	Deleted []int64
	Created []models.RunePage
	Calls   map[string]int
}

func (m *MockClient) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
	return m.Err
}

// CallCount returns how many times name was called.
func (m *MockClient) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *MockClient) ListAllPerks(ctx context.Context, auth models.AuthContext) ([]models.Perk, error) {
	return m.Perks, m.record("ListAllPerks")
}

func (m *MockClient) CurrentSummoner(ctx context.Context, auth models.AuthContext) (*models.Summoner, error) {
	if err := m.record("CurrentSummoner"); err != nil {
		return nil, err
	}
	return &models.Summoner{SummonerID: 1}, nil
}

func (m *MockClient) ListAvailableChampions(ctx context.Context, auth models.AuthContext, summonerID int64) ([]models.Champion, error) {
	return m.Champions, m.record("ListAvailableChampions")
}

func (m *MockClient) ListAllStyles(ctx context.Context, auth models.AuthContext) ([]models.RuneStyle, error) {
	return m.Styles, m.record("ListAllStyles")
}

func (m *MockClient) FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error) {
	if err := m.record("FetchIcon"); err != nil {
		return nil, err
	}
	return []byte(path), nil
}

func (m *MockClient) CurrentRunePage(ctx context.Context, auth models.AuthContext) (*models.RunePage, error) {
	if err := m.record("CurrentRunePage"); err != nil {
		return nil, err
	}
	return m.Page, nil
}

func (m *MockClient) DeleteRunePage(ctx context.Context, auth models.AuthContext, id int64) error {
	if err := m.record("DeleteRunePage"); err != nil {
		return err
	}
	m.mu.Lock()
	m.Deleted = append(m.Deleted, id)
	m.mu.Unlock()
	return nil
}

func (m *MockClient) CreateRunePage(ctx context.Context, auth models.AuthContext, page models.RunePage) error {
	if err := m.record("CreateRunePage"); err != nil {
		return err
	}
	m.mu.Lock()
	m.Created = append(m.Created, page)
	m.mu.Unlock()
	return nil
}

func (m *MockClient) CurrentChampion(ctx context.Context, auth models.AuthContext) (int64, error) {
	return m.Champion, m.record("CurrentChampion")
}

// NewLCUServer starts a TLS test server standing in for the game client and
// returns it with an [models.AuthContext] pointing at it. Requests without the
// expected basic auth get a 401.
func NewLCUServer(t *testing.T, password string, handler http.Handler) (*httptest.Server, models.AuthContext) {
	t.Helper()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "riot" || pass != password {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"errorCode":"RPC_ERROR","httpStatus":401,"message":"unauthorized"}`)
			return
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}
	port, _ := strconv.Atoi(u.Port())

	return srv, models.AuthContext{BaseURL: srv.URL, Password: password, Port: port, PID: os.Getpid()}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
