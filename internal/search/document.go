// Package search provides full-text search over user palettes using Bleve:
// name matching with fuzzy and prefix fallbacks, exact tag and hue-family
// filters, and facet counts.
package search

import (
	"slices"

	"github.com/coloredin/coloredin-server/internal/color"
	"github.com/coloredin/coloredin-server/internal/domain"
	"github.com/coloredin/coloredin-server/internal/normalize"
	"github.com/coloredin/coloredin-server/internal/palette"
)

// PaletteDocument is the indexed form of a user palette.
type PaletteDocument struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Folded  string   `json:"folded"` // accent- and case-folded name for prefix matching
	Colors  []string `json:"colors"`
	Tags    []string `json:"tags"`
	Hues    []string `json:"hues"` // distinct hue families of the colors
	OwnerID string   `json:"owner_id"`

	CreatedAt int64 `json:"created_at"` // Unix millis
}

// NewPaletteDocument derives the index document for p.
func NewPaletteDocument(p *domain.Palette) *PaletteDocument {
	hues := make([]string, 0, len(p.Colors))
	for _, c := range p.Colors {
		family := palette.HueFamily(color.Hue(c))
		if !slices.Contains(hues, family) {
			hues = append(hues, family)
		}
	}

	return &PaletteDocument{
		ID:        p.ID,
		Name:      p.Name,
		Folded:    normalize.Query(p.Name),
		Colors:    slices.Clone(p.Colors),
		Tags:      slices.Clone(p.Tags),
		Hues:      hues,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *PaletteDocument) ToMap() map[string]any {
	return map[string]any{
		"id":         d.ID,
		"name":       d.Name,
		"folded":     d.Folded,
		"colors":     d.Colors,
		"tags":       d.Tags,
		"hues":       d.Hues,
		"owner_id":   d.OwnerID,
		"created_at": d.CreatedAt,
	}
}
