package ui

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/desertthunder/champr/internal/models"
)

// sourcePicker is the fuzzy-filtered source list opened with "s".
type sourcePicker struct {
	open   bool
	query  string
	cursor int
}

func (p *sourcePicker) reset() {
	p.open = false
	p.query = ""
	p.cursor = 0
}

// matches filters items by the query, best match first.
func (p *sourcePicker) matches(items []models.SourceDescriptor) []models.SourceDescriptor {
	if p.query == "" {
		return items
	}

	targets := make([]string, len(items))
	for i, s := range items {
		targets[i] = s.Value + " " + s.Label
	}

	ranks := fuzzy.RankFindNormalizedFold(p.query, targets)
	sort.Stable(ranks)

	out := make([]models.SourceDescriptor, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, items[r.OriginalIndex])
	}
	return out
}

func (p *sourcePicker) move(delta, n int) {
	if n == 0 {
		p.cursor = 0
		return
	}
	p.cursor = (p.cursor + delta + n) % n
}

func (p *sourcePicker) typeRunes(s string) {
	p.query += s
	p.cursor = 0
}

func (p *sourcePicker) backspace() {
	if p.query == "" {
		return
	}
	r := []rune(p.query)
	p.query = string(r[:len(r)-1])
	p.cursor = 0
}
