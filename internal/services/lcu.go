package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

// LCUUser is the fixed basic-auth user of the game client API.
const LCUUser = "riot"

// LCUService implements [ClientService] against the game client's local API.
//
// httpClient accepts the client's self-signed certificate and only talks to
// the local endpoint; webClient verifies certificates and fetches absolute
// icon URLs such as champion avatars.
type LCUService struct {
	httpClient *http.Client
	webClient  *http.Client
	logger     *log.Logger
}

// NewLCUService creates an LCUService. A nil client gets [NewLCUHTTPClient] with a ten second timeout.
// Absolute icon URLs use a default verifying client until [LCUService.WithWebClient] replaces it.
func NewLCUService(client *http.Client, logger *log.Logger) *LCUService {
	if client == nil {
		client = NewLCUHTTPClient(10 * time.Second)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LCUService{
		httpClient: client,
		webClient:  &http.Client{Timeout: client.Timeout},
		logger:     logger,
	}
}

// WithWebClient sets the client used for absolute URLs. It must verify certificates.
func (s *LCUService) WithWebClient(client *http.Client) *LCUService {
	if client != nil {
		s.webClient = client
	}
	return s
}

// lcuError is the error body the client returns.
type lcuError struct {
	ErrorCode  string `json:"errorCode"`
	HTTPStatus int    `json:"httpStatus"`
	Message    string `json:"message"`
}

// errStatus is returned by doRequest for non-2xx responses.
type errStatus struct {
	code int
	msg  string
}

func (e *errStatus) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("status %d: %s", e.code, e.msg)
	}
	return fmt.Sprintf("status %d", e.code)
}

func statusCode(err error) int {
	var se *errStatus
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

func (s *LCUService) doRequest(ctx context.Context, auth models.AuthContext, method, endpoint string, body, result any) error {
	if !auth.Connected() {
		return shared.ErrNotConnected
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(auth.BaseURL, "/")+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(LCUUser, auth.Password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrClientAPI, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e lcuError
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%w: %s %s: %w", shared.ErrClientAPI, method, endpoint, &errStatus{code: resp.StatusCode, msg: e.Message})
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode %s: %v", shared.ErrClientAPI, endpoint, err)
		}
	}

	return nil
}

// ListAllPerks returns every rune the client knows.
//
// Calls GET /lol-perks/v1/perks.
func (s *LCUService) ListAllPerks(ctx context.Context, auth models.AuthContext) ([]models.Perk, error) {
	var perks []models.Perk
	if err := s.doRequest(ctx, auth, http.MethodGet, "/lol-perks/v1/perks", nil, &perks); err != nil {
		return nil, err
	}
	return perks, nil
}

// CurrentSummoner returns the logged-in account.
//
// Calls GET /lol-summoner/v1/current-summoner.
func (s *LCUService) CurrentSummoner(ctx context.Context, auth models.AuthContext) (*models.Summoner, error) {
	var summoner models.Summoner
	if err := s.doRequest(ctx, auth, http.MethodGet, "/lol-summoner/v1/current-summoner", nil, &summoner); err != nil {
		return nil, err
	}
	return &summoner, nil
}

// ListAvailableChampions returns the summoner's champion inventory.
//
// Calls GET /lol-champions/v1/inventories/{summonerId}/champions-minimal.
func (s *LCUService) ListAvailableChampions(ctx context.Context, auth models.AuthContext, summonerID int64) ([]models.Champion, error) {
	var champions []models.Champion
	endpoint := fmt.Sprintf("/lol-champions/v1/inventories/%d/champions-minimal", summonerID)
	if err := s.doRequest(ctx, auth, http.MethodGet, endpoint, nil, &champions); err != nil {
		return nil, err
	}
	return champions, nil
}

// ListAllStyles returns the rune trees.
//
// Calls GET /lol-perks/v1/styles.
func (s *LCUService) ListAllStyles(ctx context.Context, auth models.AuthContext) ([]models.RuneStyle, error) {
	var styles []models.RuneStyle
	if err := s.doRequest(ctx, auth, http.MethodGet, "/lol-perks/v1/styles", nil, &styles); err != nil {
		return nil, err
	}
	return styles, nil
}

// CurrentRunePage returns the page currently selected in the client.
func (s *LCUService) CurrentRunePage(ctx context.Context, auth models.AuthContext) (*models.RunePage, error) {
	var page models.RunePage
	if err := s.doRequest(ctx, auth, http.MethodGet, "/lol-perks/v1/currentpage", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeleteRunePage removes a page by id.
func (s *LCUService) DeleteRunePage(ctx context.Context, auth models.AuthContext, id int64) error {
	return s.doRequest(ctx, auth, http.MethodDelete, fmt.Sprintf("/lol-perks/v1/pages/%d", id), nil, nil)
}

// CreateRunePage posts a new page.
func (s *LCUService) CreateRunePage(ctx context.Context, auth models.AuthContext, page models.RunePage) error {
	return s.doRequest(ctx, auth, http.MethodPost, "/lol-perks/v1/pages", page, nil)
}

// CurrentChampion returns the champion picked in champion select, or 0 outside of champion select.
//
// Calls GET /lol-champ-select/v1/current-champion.
func (s *LCUService) CurrentChampion(ctx context.Context, auth models.AuthContext) (int64, error) {
	var id int64
	err := s.doRequest(ctx, auth, http.MethodGet, "/lol-champ-select/v1/current-champion", nil, &id)
	if statusCode(err) == http.StatusNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// FetchIcon downloads an image. Relative paths are client assets and are
// requested with credentials; absolute URLs are fetched as-is through the
// verifying web client.
func (s *LCUService) FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		var buf bytes.Buffer
		if err := s.doRaw(ctx, auth, path, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.webClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", shared.ErrFetch, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: status %d", shared.ErrFetch, path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *LCUService) doRaw(ctx context.Context, auth models.AuthContext, path string, w io.Writer) error {
	if !auth.Connected() {
		return shared.ErrNotConnected
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(auth.BaseURL, "/")+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(LCUUser, auth.Password)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", shared.ErrClientAPI, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: %w", shared.ErrClientAPI, path, &errStatus{code: resp.StatusCode})
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
