package services

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/desertthunder/champr/internal/models"
)

// ClientService is the set of game-client operations used across champr.
type ClientService interface {
	ListAllPerks(ctx context.Context, auth models.AuthContext) ([]models.Perk, error)
	CurrentSummoner(ctx context.Context, auth models.AuthContext) (*models.Summoner, error)
	ListAvailableChampions(ctx context.Context, auth models.AuthContext, summonerID int64) ([]models.Champion, error)
	ListAllStyles(ctx context.Context, auth models.AuthContext) ([]models.RuneStyle, error)
	FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error)

	CurrentRunePage(ctx context.Context, auth models.AuthContext) (*models.RunePage, error)
	DeleteRunePage(ctx context.Context, auth models.AuthContext, id int64) error
	CreateRunePage(ctx context.Context, auth models.AuthContext, page models.RunePage) error
	CurrentChampion(ctx context.Context, auth models.AuthContext) (int64, error)
}

// BuildService is the set of build-CDN operations used across champr.
type BuildService interface {
	FetchSources(ctx context.Context) ([]models.SourceDescriptor, error)
	ListBuildsByAlias(ctx context.Context, source, alias string) ([]models.BuildSection, error)
	LatestPackage(ctx context.Context, name string) (*PackageInfo, error)
	FetchChampionBuilds(ctx context.Context, source, version, alias string) ([]models.BuildSection, error)
	LatestGameVersion(ctx context.Context) (string, error)
	ListGameChampions(ctx context.Context, version string) ([]GameChampion, error)
}

// NewLCUHTTPClient returns an HTTP client that accepts the game client's self-signed certificate.
func NewLCUHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- loopback endpoint with a per-install certificate
	return &http.Client{Timeout: timeout, Transport: transport}
}
