// Package service provides the business logic layer: plan-aware catalog access,
// user palettes, the merged feed, subscriptions and AI suggestions.
package service

import (
	"context"
	"log/slog"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/normalize"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/plan"
)

// Search result limits for catalog scans.
const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 200
)

// CatalogService exposes the generated catalog with plan gating resolved from
// the caller's subscription.
type CatalogService struct {
	catalog       *palette.Catalog
	subscriptions *SubscriptionService
	logger        *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog *palette.Catalog, subscriptions *SubscriptionService, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog:       catalog,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// CatalogPage is a catalog page together with the plan that produced it.
type CatalogPage struct {
	Palettes []palette.Palette `json:"palettes"`
	HasMore  bool              `json:"has_more"`
	Total    int               `json:"total"`
	Plan     plan.Plan         `json:"plan"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Get returns the palette at a 0-based catalog index.
func (s *CatalogService) Get(index int) (palette.Palette, error) {
	p, ok := s.catalog.PaletteByIndex(index)
	if !ok {
		return palette.Palette{}, domainerrors.NotFoundf("palette index %d is outside the catalog [0, %d)", index, palette.CatalogSize)
	}
	return p, nil
}

// Range returns the palettes in [start, end), clamped to the catalog.
func (s *CatalogService) Range(start, end int) []palette.Palette {
	return s.catalog.PalettesInRange(start, end)
}

// PlanPage pages the catalog as planName would see it. Unknown plans are Free.
func (s *CatalogService) PlanPage(planName string, page, pageSize int) CatalogPage {
	p := plan.Parse(planName)
	return s.page(p, page, pageSize)
}

// Page pages the catalog for userID's current plan.
func (s *CatalogService) Page(ctx context.Context, userID string, page, pageSize int) (CatalogPage, error) {
	p, err := s.subscriptions.PlanFor(ctx, userID)
	if err != nil {
		return CatalogPage{}, err
	}
	return s.page(p, page, pageSize), nil
}

func (s *CatalogService) page(p plan.Plan, page, pageSize int) CatalogPage {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = palette.DefaultPageSize
	}
	res := s.catalog.PalettesByPlan(string(p), page, pageSize)
	return CatalogPage{
		Palettes: res.Palettes,
		HasMore:  res.HasMore,
		Total:    res.Total,
		Plan:     p,
		Page:     page,
		PageSize: pageSize,
	}
}

// Search scans the catalog for query. Scope ScopePlan stops at userID's plan
// ceiling; ScopeAll covers the whole catalog. At most limit results are
// returned and the scan stops as soon as they are found.
func (s *CatalogService) Search(ctx context.Context, userID, query, scope string, limit int) ([]palette.Palette, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	q := normalize.Query(query)
	if q == "" {
		return []palette.Palette{}, nil
	}

	ceiling := palette.CatalogSize
	if scope != palette.ScopeAll {
		scope = palette.ScopePlan
		p, err := s.subscriptions.PlanFor(ctx, userID)
		if err != nil {
			return nil, err
		}
		ceiling = p.Ceiling()
	}

	results := make([]palette.Palette, 0, min(limit, 16))
	for p := range s.catalog.Scan(q, ceiling, scope) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, p)
		if len(results) == limit {
			break
		}
	}

	s.logger.DebugContext(ctx, "catalog search",
		"query", q,
		"scope", scope,
		"ceiling", ceiling,
		"results", len(results),
	)
	return results, nil
}

// Random returns the colors of a random free palette.
func (s *CatalogService) Random() []string {
	return s.catalog.RandomPalette()
}

// RandomColors returns a fresh 5-color scheme; count is ignored.
func (s *CatalogService) RandomColors(count int) []string {
	return s.catalog.RandomColors(count)
}
