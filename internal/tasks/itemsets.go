package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

// NamedItemSet is an item set and the file name it is written under.
type NamedItemSet struct {
	FileName string
	Set      models.ItemSet
}

// ItemSetDir is the directory the client reads a champion's recommended item sets from.
// Alternate region installs keep game files in a sibling Game directory.
func ItemSetDir(installDir string, alternateRegion bool, alias string) string {
	if alternateRegion {
		return filepath.Join(filepath.Dir(installDir), "Game", "Config", "Champions", alias, "Recommended")
	}
	return filepath.Join(installDir, "Config", "Champions", alias, "Recommended")
}

// filePrefix is the part of an item set file name shared by every file of a
// source for one champion.
func filePrefix(source, alias string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "@", "", ":", "_")
	return r.Replace(source) + "-" + alias + "-"
}

// ItemSetsFromSections converts alias's build sections into client item sets
// named "{source}-{alias}-{position}.json". Sections without a position use
// their index, and sections with several builds get a numeric suffix.
func ItemSetsFromSections(source, alias string, sections []models.BuildSection) []NamedItemSet {
	var out []NamedItemSet
	for i, section := range sections {
		tag := section.Position
		if tag == "" {
			tag = strconv.Itoa(i)
		}

		for j, build := range section.ItemBuilds {
			name := filePrefix(source, alias) + tag
			if len(section.ItemBuilds) > 1 {
				name = fmt.Sprintf("%s-%d", name, j+1)
			}
			out = append(out, NamedItemSet{FileName: name + ".json", Set: ToItemSet(source, section, build)})
		}
	}
	return out
}

// ToItemSet converts one item build into the client's item set document.
func ToItemSet(source string, section models.BuildSection, build models.ItemBuild) models.ItemSet {
	title := build.Title
	if title == "" {
		title = strings.TrimSpace(section.Name + " " + section.Position)
	}

	set := models.ItemSet{
		Title:               fmt.Sprintf("[%s] %s", source, title),
		AssociatedMaps:      build.AssociatedMaps,
		AssociatedChampions: build.AssociatedChampions,
		Blocks:              build.Blocks,
		Map:                 build.Map,
		Mode:                build.Mode,
		PreferredItemSlots:  build.PreferredItemSlots,
		Sortrank:            build.Sortrank,
		StartedFrom:         build.StartedFrom,
		Type:                build.Type,
	}
	if set.Map == "" {
		set.Map = "any"
	}
	if set.Mode == "" {
		set.Mode = "any"
	}
	if set.Type == "" {
		set.Type = "custom"
	}
	if set.StartedFrom == "" {
		set.StartedFrom = "blank"
	}
	if set.AssociatedMaps == nil {
		set.AssociatedMaps = []int64{}
	}
	if set.AssociatedChampions == nil {
		set.AssociatedChampions = []int64{}
	}
	if set.PreferredItemSlots == nil {
		set.PreferredItemSlots = []any{}
	}
	if set.Blocks == nil {
		set.Blocks = []models.ItemBlock{}
	}
	return set
}

// RemoveStaleItemSets deletes the files in dir written earlier for source and alias.
// A missing dir is not an error.
func RemoveStaleItemSets(dir, source, alias string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	prefix := filePrefix(source, alias)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// WriteItemSets replaces the item sets of source and alias in dir and returns the written paths.
func WriteItemSets(dir, source, alias string, sets []NamedItemSet) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if _, err := RemoveStaleItemSets(dir, source, alias); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(sets))
	for _, s := range sets {
		data, err := shared.MarshalJSON(s.Set, true)
		if err != nil {
			return files, fmt.Errorf("failed to encode %s: %w", s.FileName, err)
		}

		path := filepath.Join(dir, s.FileName)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}
