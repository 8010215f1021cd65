package service

import (
	"context"
	"log/slog"

	"github.com/coloredin/coloredin-server/internal/domain"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/plan"
)

// FeedService merges a caller's own palettes ahead of their plan's view of
// the generated catalog.
type FeedService struct {
	palettes PaletteStore
	catalog  *CatalogService
	logger   *slog.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(palettes PaletteStore, catalog *CatalogService, logger *slog.Logger) *FeedService {
	return &FeedService{
		palettes: palettes,
		catalog:  catalog,
		logger:   logger,
	}
}

// FeedPage is one page of the merged feed.
type FeedPage struct {
	Items     []domain.FeedItem `json:"items"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
	HasMore   bool              `json:"has_more"`
	Plan      plan.Plan         `json:"plan"`
	UserCount int               `json:"user_count"`    // user palettes on this page
	Total     int               `json:"catalog_total"` // catalog palettes visible to the plan
}

// Feed returns page of the merged feed for userID. The caller's palettes are
// listed in full on page 0 only; the catalog part pages normally, so page
// sizes are those of the catalog page.
func (s *FeedService) Feed(ctx context.Context, userID string, page, pageSize int) (*FeedPage, error) {
	catalogPage, err := s.catalog.Page(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	var own []*domain.Palette
	if userID != "" && catalogPage.Page == 0 {
		own, err = s.palettes.ListPalettesByOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	items := make([]domain.FeedItem, 0, len(own)+len(catalogPage.Palettes))
	for _, p := range own {
		items = append(items, userFeedItem(p))
	}
	for _, p := range catalogPage.Palettes {
		items = append(items, catalogFeedItem(p))
	}

	s.logger.DebugContext(ctx, "feed built",
		"user_id", userID,
		"plan", catalogPage.Plan,
		"page", catalogPage.Page,
		"user_items", len(own),
		"catalog_items", len(catalogPage.Palettes),
	)

	return &FeedPage{
		Items:     items,
		Page:      catalogPage.Page,
		PageSize:  catalogPage.PageSize,
		HasMore:   catalogPage.HasMore,
		Plan:      catalogPage.Plan,
		UserCount: len(own),
		Total:     catalogPage.Total,
	}, nil
}

func userFeedItem(p *domain.Palette) domain.FeedItem {
	return domain.FeedItem{
		ID:      p.ID,
		Name:    p.Name,
		Colors:  p.Colors,
		Tags:    p.Tags,
		Source:  domain.FeedSourceUser,
		IsFree:  true,
		OwnerID: p.OwnerID,
	}
}

func catalogFeedItem(p palette.Palette) domain.FeedItem {
	return domain.FeedItem{
		ID:     p.ID,
		Name:   p.Name,
		Colors: p.Colors,
		Tags:   p.Tags,
		Source: domain.FeedSourceCatalog,
		IsFree: p.IsFree,
	}
}
