package services

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

const (
	defaultUnpkgURL   = "https://unpkg.com"
	defaultNPMURL     = "https://mirrors.cloud.tencent.com/npm"
	defaultDDragonURL = "https://ddragon.leagueoflegends.com"
	defaultScope      = "@champ-r"
	defaultSourceList = "source-list"
)

// PackageInfo is the subset of an npm package manifest champr reads.
type PackageInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	SourceVersion string `json:"sourceVersion"`
}

// GameChampion is a champion entry from Data Dragon's champion.json.
type GameChampion struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// CDNOptions configures a [CDNService]. Empty fields use the public defaults.
type CDNOptions struct {
	UnpkgURL       string
	NPMRegistryURL string
	DDragonURL     string
	PackageScope   string
	SourceList     string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *log.Logger
}

// CDNService implements [BuildService].
type CDNService struct {
	unpkgURL   string
	npmURL     string
	ddragonURL string
	scope      string
	sourceList string
	httpClient *http.Client
	logger     *log.Logger
}

// NewCDNService creates a CDNService.
func NewCDNService(opts CDNOptions) *CDNService {
	s := &CDNService{
		unpkgURL:   strings.TrimRight(cmp.Or(opts.UnpkgURL, defaultUnpkgURL), "/"),
		npmURL:     strings.TrimRight(cmp.Or(opts.NPMRegistryURL, defaultNPMURL), "/"),
		ddragonURL: strings.TrimRight(cmp.Or(opts.DDragonURL, defaultDDragonURL), "/"),
		scope:      cmp.Or(opts.PackageScope, defaultScope),
		sourceList: cmp.Or(opts.SourceList, defaultSourceList),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if s.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		s.httpClient = &http.Client{Timeout: timeout}
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// packageName returns the scoped npm name for a source.
func (s *CDNService) packageName(source string) string {
	if strings.HasPrefix(source, "@") {
		return source
	}
	return s.scope + "/" + source
}

func (s *CDNService) getJSON(ctx context.Context, url string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("fetching", "url", url)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", shared.ErrFetch, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: GET %s: %w", shared.ErrFetch, url, shared.ErrSourceNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: GET %s: status %d", shared.ErrFetch, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", shared.ErrFetch, url, err)
	}
	return nil
}

// LatestPackage resolves the newest published manifest of a package through the registry mirror.
func (s *CDNService) LatestPackage(ctx context.Context, name string) (*PackageInfo, error) {
	var pkg PackageInfo
	if err := s.getJSON(ctx, fmt.Sprintf("%s/%s/latest", s.npmURL, s.packageName(name)), &pkg); err != nil {
		return nil, err
	}
	if pkg.Version == "" {
		return nil, fmt.Errorf("%w: package %s has no version", shared.ErrFetch, name)
	}
	if _, err := semver.NewVersion(pkg.Version); err != nil {
		return nil, fmt.Errorf("%w: package %s has invalid version %q: %v", shared.ErrFetch, name, pkg.Version, err)
	}
	return &pkg, nil
}

// FetchSources returns the source catalog from the source-list package.
func (s *CDNService) FetchSources(ctx context.Context) ([]models.SourceDescriptor, error) {
	pkg, err := s.LatestPackage(ctx, s.sourceList)
	if err != nil {
		return nil, err
	}

	var sources []models.SourceDescriptor
	url := fmt.Sprintf("%s/%s@%s/index.json", s.unpkgURL, s.packageName(s.sourceList), pkg.Version)
	if err := s.getJSON(ctx, url, &sources); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: empty source list", shared.ErrFetch)
	}
	return sources, nil
}

// FetchChampionBuilds returns a champion's build sections from one version of a source package.
func (s *CDNService) FetchChampionBuilds(ctx context.Context, source, version, alias string) ([]models.BuildSection, error) {
	var sections []models.BuildSection
	url := fmt.Sprintf("%s/%s@%s/%s.json", s.unpkgURL, s.packageName(source), version, alias)
	if err := s.getJSON(ctx, url, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// ListBuildsByAlias returns a champion's build sections from the latest version of a source.
func (s *CDNService) ListBuildsByAlias(ctx context.Context, source, alias string) ([]models.BuildSection, error) {
	pkg, err := s.LatestPackage(ctx, source)
	if err != nil {
		return nil, err
	}
	return s.FetchChampionBuilds(ctx, source, pkg.Version, alias)
}

// LatestGameVersion returns the highest game version Data Dragon lists.
// Entries that are not semantic versions are ignored.
func (s *CDNService) LatestGameVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := s.getJSON(ctx, s.ddragonURL+"/api/versions.json", &versions); err != nil {
		return "", err
	}

	latest, ok := HighestVersion(versions)
	if !ok {
		return "", fmt.Errorf("%w: no valid game versions", shared.ErrFetch)
	}
	return latest, nil
}

// HighestVersion picks the greatest semantic version from list.
func HighestVersion(list []string) (string, bool) {
	parsed := make([]*semver.Version, 0, len(list))
	originals := make(map[*semver.Version]string, len(list))
	for _, raw := range list {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		parsed = append(parsed, v)
		originals[v] = raw
	}
	if len(parsed) == 0 {
		return "", false
	}

	sort.Sort(semver.Collection(parsed))
	return originals[parsed[len(parsed)-1]], true
}

// ListGameChampions returns every champion of a game version, sorted by id.
func (s *CDNService) ListGameChampions(ctx context.Context, version string) ([]GameChampion, error) {
	var resp struct {
		Version string                  `json:"version"`
		Data    map[string]GameChampion `json:"data"`
	}
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", s.ddragonURL, version)
	if err := s.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	champions := make([]GameChampion, 0, len(resp.Data))
	for _, c := range resp.Data {
		champions = append(champions, c)
	}
	sort.Slice(champions, func(i, j int) bool { return champions[i].ID < champions[j].ID })
	return champions, nil
}
