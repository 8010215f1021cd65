package providers

import (
	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/logger"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/service"
	"github.com/coloredin/coloredin-server/internal/validation"
)

// ProvideValidator provides the request validator shared by the services.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSubscriptionService provides the plan resolution and billing service.
func ProvideSubscriptionService(i do.Injector) (*service.SubscriptionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSubscriptionService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideCatalogService provides the plan-aware catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	catalog := do.MustInvoke[*palette.Catalog](i)
	subscriptions := do.MustInvoke[*service.SubscriptionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(catalog, subscriptions, log.Logger), nil
}

// ProvidePaletteService provides the user palette service.
func ProvidePaletteService(i do.Injector) (*service.PaletteService, error) {
	paletteStore := do.MustInvoke[*PaletteStoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPaletteService(paletteStore.Store, indexHandle.Index, validator, log.Logger), nil
}

// ProvideFeedService provides the blended palette feed.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	paletteStore := do.MustInvoke[*PaletteStoreHandle](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFeedService(paletteStore.Store, catalogService, log.Logger), nil
}

// ProvideSuggestionService provides the AI palette suggestion service.
func ProvideSuggestionService(i do.Injector) (*service.SuggestionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	catalog := do.MustInvoke[*palette.Catalog](i)
	completer := do.MustInvoke[*CompleterHandle](i)
	limiter := do.MustInvoke[*AILimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSuggestionService(
		completer.Completer,
		catalog,
		limiter.KeyedRateLimiter,
		cfg.AI.Timeout,
		log.Logger,
	), nil
}

// ProvidePreviewService provides the PNG and BlurHash preview service.
func ProvidePreviewService(i do.Injector) (*service.PreviewService, error) {
	catalogService := do.MustInvoke[*service.CatalogService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPreviewService(catalogService, log.Logger), nil
}
