package dto

import (
	"slices"
	"time"

	"github.com/coloredin/coloredin-server/internal/domain"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/plan"
	"github.com/coloredin/coloredin-server/internal/service"
)

// CatalogPalette is a generated palette from the virtual catalog.
type CatalogPalette struct {
	ID     string         `json:"id" doc:"1-based catalog position"`
	Index  int            `json:"index" doc:"0-based catalog index"`
	Name   string         `json:"name" doc:"Generated name"`
	Colors []string       `json:"colors" doc:"Five uppercase #RRGGBB colors"`
	Tags   []string       `json:"tags" doc:"Up to four lowercase tags"`
	Scheme palette.Scheme `json:"scheme" doc:"Color scheme the palette was drawn from"`
	IsFree bool           `json:"is_free" doc:"Whether the free plan can see it"`
}

// NewCatalogPalette converts an engine palette.
func NewCatalogPalette(p palette.Palette) CatalogPalette {
	return CatalogPalette{
		ID:     p.ID,
		Index:  p.Index,
		Name:   p.Name,
		Colors: nonNil(slices.Clone(p.Colors)),
		Tags:   nonNil(slices.Clone(p.Tags)),
		Scheme: p.Scheme,
		IsFree: p.IsFree,
	}
}

// NewCatalogPalettes converts a slice of engine palettes, never returning nil.
func NewCatalogPalettes(palettes []palette.Palette) []CatalogPalette {
	out := make([]CatalogPalette, 0, len(palettes))
	for _, p := range palettes {
		out = append(out, NewCatalogPalette(p))
	}
	return out
}

// CatalogPage is one plan-gated page of the catalog.
type CatalogPage struct {
	Palettes []CatalogPalette `json:"palettes" doc:"Palettes in index order"`
	HasMore  bool             `json:"has_more" doc:"Whether another page exists under the plan ceiling"`
	Total    int              `json:"total" doc:"Palettes visible to the plan"`
	Plan     plan.Plan        `json:"plan" doc:"Plan the page was computed for"`
	Page     int              `json:"page" doc:"0-based page number"`
	PageSize int              `json:"page_size" doc:"Palettes per page"`
}

// NewCatalogPage converts a service catalog page.
func NewCatalogPage(page service.CatalogPage) CatalogPage {
	return CatalogPage{
		Palettes: NewCatalogPalettes(page.Palettes),
		HasMore:  page.HasMore,
		Total:    page.Total,
		Plan:     page.Plan,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}

// UserPalette is a palette saved by a user.
type UserPalette struct {
	ID        string    `json:"id" doc:"Palette ID"`
	Name      string    `json:"name" doc:"Palette name"`
	Colors    []string  `json:"colors" doc:"Five uppercase #RRGGBB colors"`
	Tags      []string  `json:"tags" doc:"Lowercase tags"`
	OwnerID   string    `json:"owner_id" doc:"User who saved the palette"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// NewUserPalette converts a persisted palette.
func NewUserPalette(p *domain.Palette) UserPalette {
	return UserPalette{
		ID:        p.ID,
		Name:      p.Name,
		Colors:    nonNil(slices.Clone(p.Colors)),
		Tags:      nonNil(slices.Clone(p.Tags)),
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewUserPalettes converts persisted palettes, never returning nil.
func NewUserPalettes(palettes []*domain.Palette) []UserPalette {
	out := make([]UserPalette, 0, len(palettes))
	for _, p := range palettes {
		out = append(out, NewUserPalette(p))
	}
	return out
}
