package models

import (
	"fmt"
	"strings"
)

// SourceDescriptor is one build provider listed in the source catalog.
type SourceDescriptor struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	IsARAM bool   `json:"isAram,omitempty"`
	IsURF  bool   `json:"isUrf,omitempty"`
}

// Mode returns a short game-mode tag for display.
func (s SourceDescriptor) Mode() string {
	switch {
	case s.IsARAM:
		return "ARAM"
	case s.IsURF:
		return "URF"
	default:
		return "SR"
	}
}

// Rune is a recommended rune page inside a [BuildSection].
type Rune struct {
	Alias           string  `json:"alias"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	PickCount       int64   `json:"pickCount"`
	WinRate         string  `json:"winRate"`
	PrimaryStyleID  int64   `json:"primaryStyleId"`
	SubStyleID      int64   `json:"subStyleId"`
	SelectedPerkIDs []int64 `json:"selectedPerkIds"`
	Score           float64 `json:"score,omitempty"`
}

// PrimaryPerkID returns the keystone perk, or 0 when the rune has no perks.
func (r Rune) PrimaryPerkID() int64 {
	if len(r.SelectedPerkIDs) == 0 {
		return 0
	}
	return r.SelectedPerkIDs[0]
}

// PageName is the name given to the rune page written to the client.
func (r Rune) PageName() string {
	if r.Position == "" {
		return r.Name
	}
	return fmt.Sprintf("%s %s", r.Name, r.Position)
}

// Equal reports whether two runes describe the same page.
func (r Rune) Equal(o Rune) bool {
	if r.Alias != o.Alias || r.Name != o.Name || r.Position != o.Position ||
		r.PrimaryStyleID != o.PrimaryStyleID || r.SubStyleID != o.SubStyleID ||
		len(r.SelectedPerkIDs) != len(o.SelectedPerkIDs) {
		return false
	}
	for i := range r.SelectedPerkIDs {
		if r.SelectedPerkIDs[i] != o.SelectedPerkIDs[i] {
			return false
		}
	}
	return true
}

// Item is one entry of an item block.
type Item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// ItemBlock is a titled group of items.
type ItemBlock struct {
	Type  string `json:"type"`
	Items []Item `json:"items"`
}

// ItemBuild is a recommended item set in the client's item-set shape.
type ItemBuild struct {
	Title               string      `json:"title"`
	AssociatedMaps      []int64     `json:"associatedMaps"`
	AssociatedChampions []int64     `json:"associatedChampions"`
	Blocks              []ItemBlock `json:"blocks"`
	Map                 string      `json:"map"`
	Mode                string      `json:"mode"`
	PreferredItemSlots  []any       `json:"preferredItemSlots"`
	Sortrank            int64       `json:"sortrank"`
	StartedFrom         string      `json:"startedFrom"`
	Type                string      `json:"type"`
}

// BuildSection is one champion's builds for one position from one source.
type BuildSection struct {
	Index           int64       `json:"index"`
	ID              string      `json:"id"`
	Version         string      `json:"version"`
	OfficialVersion string      `json:"officialVersion"`
	Timestamp       int64       `json:"timestamp"`
	Alias           string      `json:"alias"`
	Name            string      `json:"name"`
	Position        string      `json:"position"`
	Skills          []string    `json:"skills,omitempty"`
	Spells          []string    `json:"spells,omitempty"`
	ItemBuilds      []ItemBuild `json:"itemBuilds"`
	Runes           []Rune      `json:"runes"`
}

// ItemSet is the JSON document the client reads from its Recommended directory.
type ItemSet struct {
	Title               string      `json:"title"`
	AssociatedMaps      []int64     `json:"associatedMaps"`
	AssociatedChampions []int64     `json:"associatedChampions"`
	Blocks              []ItemBlock `json:"blocks"`
	Map                 string      `json:"map"`
	Mode                string      `json:"mode"`
	PreferredItemSlots  []any       `json:"preferredItemSlots"`
	Sortrank            int64       `json:"sortrank"`
	StartedFrom         string      `json:"startedFrom"`
	Type                string      `json:"type"`
}

// BulkApplyRequest asks the apply pipeline to write item sets for a source.
type BulkApplyRequest struct {
	Source            string `json:"source"`
	InstallDir        string `json:"installDir"`
	IsAlternateRegion bool   `json:"isAlternateRegion"`
}

// MultiApplyRequest fans a bulk apply out over several sources and champions.
//
// An empty Aliases slice means every champion of the latest game version.
type MultiApplyRequest struct {
	Sources           []string
	Aliases           []string
	InstallDir        string
	IsAlternateRegion bool
}

// String renders the request for logs and job records.
func (r MultiApplyRequest) String() string {
	champs := "all"
	if len(r.Aliases) > 0 {
		champs = strings.Join(r.Aliases, ",")
	}
	return fmt.Sprintf("sources=%s champions=%s", strings.Join(r.Sources, ","), champs)
}
