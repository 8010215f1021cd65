package api

import (
	"context"

	"github.com/coloredin/coloredin-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Catalog      *service.CatalogService
	Palette      *service.PaletteService
	Feed         *service.FeedService
	Subscription *service.SubscriptionService
	Suggestion   *service.SuggestionService
	Preview      *service.PreviewService
}

// HealthCheck checks one backing component for the health endpoint. A nil
// error means healthy.
type HealthCheck func(ctx context.Context) error
