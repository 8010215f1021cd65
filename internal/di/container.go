// Package di provides dependency injection configuration for the Colored In server.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/auth"
	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/di/providers"
	"github.com/coloredin/coloredin-server/internal/logger"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// A non-nil cfg is used as is; otherwise configuration is loaded from the
// process arguments and environment.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	if cfg != nil {
		do.ProvideValue(injector, cfg)
	} else {
		do.Provide(injector, providers.ProvideConfig)
	}
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvidePaletteStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Catalog and AI
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideCompleter)
	do.Provide(injector, providers.ProvideAPILimiter)
	do.Provide(injector, providers.ProvideAILimiter)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideSubscriptionService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvidePaletteService)
	do.Provide(injector, providers.ProvideFeedService)
	do.Provide(injector, providers.ProvideSuggestionService)
	do.Provide(injector, providers.ProvidePreviewService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		// Core infrastructure
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[providers.AuthKey](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*providers.PaletteStoreHandle](injector),
		invoke[*providers.SearchIndexHandle](injector),
		invoke[*palette.Catalog](injector),
		invoke[*providers.CompleterHandle](injector),
		invoke[*auth.TokenService](injector),

		// Business services
		invoke[*service.SubscriptionService](injector),
		invoke[*service.CatalogService](injector),
		invoke[*service.PaletteService](injector),
		invoke[*service.FeedService](injector),
		invoke[*service.SuggestionService](injector),
		invoke[*service.PreviewService](injector),

		// Server
		invoke[*providers.HTTPServerHandle](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	// Rebuild the search index from SQLite if it was lost
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		if _, err := do.Invoke[T](injector); err != nil {
			return fmt.Errorf("initialize %T: %w", *new(T), err)
		}
		return nil
	}
}
