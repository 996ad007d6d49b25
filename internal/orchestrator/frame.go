package orchestrator

import "github.com/desertthunder/champr/internal/models"

// Icon sizes in pixels.
const (
	PrimaryIconSize = 32
	SubIconSize     = 20
	AvatarIconSize  = 64
)

// IconState says what to draw in an icon slot.
type IconState int

const (
	IconNone IconState = iota
	IconSpinner
	IconImage
)

// IconView describes one icon slot. Loaded is set once the fetch succeeded,
// even when it returned no bytes.
type IconView struct {
	Path    string
	Size    int
	Loading bool
	Loaded  bool
	Bytes   []byte
}

// State returns what the slot should show.
func (v IconView) State() IconState {
	switch {
	case v.Loaded:
		return IconImage
	case v.Loading:
		return IconSpinner
	default:
		return IconNone
	}
}

// CatalogView summarizes the perk, champion and style catalog.
type CatalogView struct {
	Pending   bool
	Errors    []string
	Perks     int
	Champions int
	Styles    int
}

// ChampionView is the currently selected champion.
type ChampionView struct {
	ID       int64
	Name     string
	Alias    string
	Resolved bool
	Avatar   IconView
}

// SourcesView is the source catalog and the current selection.
type SourcesView struct {
	Pending  bool
	Err      error
	Items    []models.SourceDescriptor
	Selected string
}

// RuneView is one rune with its icons.
type RuneView struct {
	Rune    models.Rune
	Primary IconView
	Sub     IconView
	Pending bool
}

// SectionView is one build section with its runes.
type SectionView struct {
	Section models.BuildSection
	Runes   []RuneView
}

// BuildsView is the build list for the current champion and source.
type BuildsView struct {
	Visible  bool
	Pending  bool
	Err      error
	Source   string
	Alias    string
	Sections []SectionView
}

// ApplyView is the state of the single-rune apply.
type ApplyView struct {
	Target  *models.Rune
	Pending bool
	Err     error
	Applied string
}

// BulkView is the state of the bulk item-set apply.
type BulkView struct {
	Pending bool
	Source  string
}

// Frame describes everything the UI draws for one cycle.
type Frame struct {
	Connected       bool
	Hidden          bool
	Port            int
	AlternateRegion bool
	Catalog         CatalogView
	Champion        ChampionView
	Sources         SourcesView
	Builds          BuildsView
	ApplyRune       ApplyView
	Bulk            BulkView
}

// CatalogErrors returns the labels for catalog collections that failed to load.
func (f Frame) CatalogErrors() []string {
	return f.Catalog.Errors
}
