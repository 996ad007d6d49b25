package orchestrator

import (
	"context"

	"github.com/desertthunder/champr/internal/models"
)

// ClientAPI reads from the locally running game client.
type ClientAPI interface {
	ListAllPerks(ctx context.Context, auth models.AuthContext) ([]models.Perk, error)
	CurrentSummoner(ctx context.Context, auth models.AuthContext) (*models.Summoner, error)
	ListAvailableChampions(ctx context.Context, auth models.AuthContext, summonerID int64) ([]models.Champion, error)
	ListAllStyles(ctx context.Context, auth models.AuthContext) ([]models.RuneStyle, error)
	FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error)
}

// BuildSource lists build providers and their builds.
type BuildSource interface {
	FetchSources(ctx context.Context) ([]models.SourceDescriptor, error)
	ListBuildsByAlias(ctx context.Context, source, alias string) ([]models.BuildSection, error)
}

// Applier writes builds into the game client.
type Applier interface {
	ApplyRune(ctx context.Context, auth models.AuthContext, page models.Rune) error
	ApplyBuildsFromSource(ctx context.Context, req models.BulkApplyRequest, alias string) error
}
