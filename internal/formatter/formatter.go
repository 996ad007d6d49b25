// package formatter renders build sections, sources and apply history for the CLI (text, Markdown, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

// Supported output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Names resolves perk and style ids to display names. Missing ids render as numbers.
type Names struct {
	Perks  map[int64]string
	Styles map[int64]string
}

// NewNames indexes the client catalog.
func NewNames(perks []models.Perk, styles []models.RuneStyle) Names {
	n := Names{Perks: make(map[int64]string, len(perks)), Styles: make(map[int64]string, len(styles))}
	for _, p := range perks {
		n.Perks[p.ID] = p.Name
	}
	for _, s := range styles {
		n.Styles[s.ID] = s.Name
	}
	return n
}

func (n Names) perk(id int64) string {
	if name, ok := n.Perks[id]; ok {
		return name
	}
	return strconv.FormatInt(id, 10)
}

func (n Names) style(id int64) string {
	if name, ok := n.Styles[id]; ok {
		return name
	}
	return strconv.FormatInt(id, 10)
}

func (n Names) perkList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = n.perk(id)
	}
	return strings.Join(parts, ", ")
}

// BuildsToText renders build sections as plain text.
func BuildsToText(source, alias string, sections []models.BuildSection, names Names) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s builds from %s\n", alias, source)
	if len(sections) > 0 {
		fmt.Fprintf(&buf, "Game version: %s\n", sections[0].OfficialVersion)
	}

	for _, s := range sections {
		fmt.Fprintf(&buf, "\n[%s]\n", positionLabel(s))
		for i, r := range s.Runes {
			fmt.Fprintf(&buf, "  %d. %s / %s  picks=%d win=%s%%\n", i+1, names.style(r.PrimaryStyleID), names.style(r.SubStyleID), r.PickCount, r.WinRate)
			fmt.Fprintf(&buf, "     %s\n", names.perkList(r.SelectedPerkIDs))
		}
		if len(s.Spells) > 0 {
			fmt.Fprintf(&buf, "  Spells: %s\n", strings.Join(s.Spells, ", "))
		}
		if len(s.Skills) > 0 {
			fmt.Fprintf(&buf, "  Skills: %s\n", strings.Join(s.Skills, " > "))
		}
		fmt.Fprintf(&buf, "  Item sets: %d\n", len(s.ItemBuilds))
	}
	return buf.Bytes()
}

// BuildsToMarkdown renders build sections as Markdown with an optional avatar image.
func BuildsToMarkdown(source, alias string, sections []models.BuildSection, names Names, avatarURL string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s (%s)\n\n", alias, source)

	if avatarURL != "" {
		fmt.Fprintf(&buf, "![%s](%s)\n\n", alias, avatarURL)
	}
	if len(sections) > 0 {
		fmt.Fprintf(&buf, "**Game version**: %s\n", sections[0].OfficialVersion)
		fmt.Fprintf(&buf, "**Package version**: %s\n\n", sections[0].Version)
	}

	for _, s := range sections {
		fmt.Fprintf(&buf, "## %s\n\n", positionLabel(s))
		if len(s.Runes) > 0 {
			buf.WriteString("| # | Primary | Secondary | Perks | Picks | Win rate |\n")
			buf.WriteString("|---|---------|-----------|-------|-------|----------|\n")
			for i, r := range s.Runes {
				fmt.Fprintf(&buf, "| %d | %s | %s | %s | %d | %s%% |\n",
					i+1, names.style(r.PrimaryStyleID), names.style(r.SubStyleID), names.perkList(r.SelectedPerkIDs), r.PickCount, r.WinRate)
			}
			buf.WriteString("\n")
		}
		for _, b := range s.ItemBuilds {
			fmt.Fprintf(&buf, "### %s\n\n", b.Title)
			for _, block := range b.Blocks {
				ids := make([]string, len(block.Items))
				for i, it := range block.Items {
					ids[i] = it.ID
					if it.Count > 1 {
						ids[i] = fmt.Sprintf("%s x%d", it.ID, it.Count)
					}
				}
				fmt.Fprintf(&buf, "- **%s**: %s\n", block.Type, strings.Join(ids, ", "))
			}
			buf.WriteString("\n")
		}
	}
	return buf.Bytes()
}

// BuildsToCSV renders one row per rune page with columns: Position, Name, Primary, Secondary, Perks, Picks, WinRate
func BuildsToCSV(sections []models.BuildSection, names Names) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Name", "Primary", "Secondary", "Perks", "Picks", "WinRate"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range sections {
		for _, r := range s.Runes {
			record := []string{
				s.Position,
				r.PageName(),
				names.style(r.PrimaryStyleID),
				names.style(r.SubStyleID),
				names.perkList(r.SelectedPerkIDs),
				strconv.FormatInt(r.PickCount, 10),
				r.WinRate,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// Builds renders sections in format.
func Builds(format, source, alias string, sections []models.BuildSection, names Names, avatarURL string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return BuildsToText(source, alias, sections, names), nil
	case FormatMarkdown, "md":
		return BuildsToMarkdown(source, alias, sections, names, avatarURL), nil
	case FormatCSV:
		return BuildsToCSV(sections, names)
	case FormatJSON:
		return shared.MarshalJSON(sections, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// SourcesToText renders the source catalog, marking the default (first) source.
func SourcesToText(sources []models.SourceDescriptor) []byte {
	var buf bytes.Buffer
	for i, s := range sources {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s %-24s %-20s %s\n", marker, s.Value, s.Label, s.Mode())
	}
	return buf.Bytes()
}

// HistoryToText renders apply jobs, newest first, with relative times.
func HistoryToText(jobs []*models.ApplyJob, now time.Time) []byte {
	var buf bytes.Buffer
	if len(jobs) == 0 {
		buf.WriteString("No apply jobs recorded.\n")
		return buf.Bytes()
	}

	for _, j := range jobs {
		champs := "all champions"
		if n := len(j.Champions()); n > 0 {
			champs = fmt.Sprintf("%d champions", n)
		}

		fmt.Fprintf(&buf, "#%-4d %-10s %-28s %-14s %4d files  %s\n",
			j.Sequence(), j.Status(), strings.Join(j.Sources(), ","), champs, j.FilesWritten(),
			humanize.RelTime(j.CreatedAt(), now, "ago", "from now"))

		if d := j.Duration(); d > 0 {
			fmt.Fprintf(&buf, "      took %s", d.Round(time.Millisecond))
			if j.ChampionsFailed() > 0 {
				fmt.Fprintf(&buf, ", %d failed", j.ChampionsFailed())
			}
			buf.WriteString("\n")
		}
		if msg := j.ErrorMessage(); msg != "" {
			fmt.Fprintf(&buf, "      error: %s\n", msg)
		}
	}
	return buf.Bytes()
}

// WriteFile writes data to path, or to stdout when path is empty or "-".
func WriteFile(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func positionLabel(s models.BuildSection) string {
	if s.Position == "" {
		return fmt.Sprintf("%s #%d", s.Name, s.Index+1)
	}
	return fmt.Sprintf("%s %s", s.Name, s.Position)
}
