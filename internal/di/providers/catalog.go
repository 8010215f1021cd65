package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/ai"
	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/logger"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/ratelimit"
	"github.com/coloredin/coloredin-server/internal/service"
)

// ProvideCatalog provides the generated palette catalog, pre-warmed with the
// configured number of palettes.
func ProvideCatalog(i do.Injector) (*palette.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	catalog := palette.NewCatalog(palette.WithMetrics(palette.DefaultMetrics()))
	catalog.Warm(cfg.Catalog.WarmCount)

	log.Info("Palette catalog warmed",
		"cached", catalog.CacheSize(),
		"catalog_size", palette.CatalogSize,
	)

	return catalog, nil
}

// CompleterHandle carries the optional text model. Completer is nil when AI
// suggestions are disabled.
type CompleterHandle struct {
	Completer service.Completer
}

// ProvideCompleter provides the Gemini completer when AI is enabled.
func ProvideCompleter(i do.Injector) (*CompleterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.AI.Enabled {
		log.Info("AI palette suggestions disabled, using generated fallbacks")
		return &CompleterHandle{}, nil
	}

	gemini, err := ai.NewGemini(context.Background(), ai.Config{
		Backend: cfg.AI.Backend,
		Model:   cfg.AI.Model,
		APIKey:  cfg.AI.APIKey,
	})
	if err != nil {
		return nil, err
	}

	log.Info("AI palette suggestions enabled",
		"backend", cfg.AI.Backend,
		"model", gemini.Model(),
	)

	return &CompleterHandle{Completer: gemini}, nil
}

// APILimiterHandle wraps the per-client API rate limiter.
type APILimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *APILimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAPILimiter provides the per-IP limiter applied to /api routes.
func ProvideAPILimiter(i do.Injector) (*APILimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &APILimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.RateLimit.APIRequestsPerSecond, cfg.RateLimit.APIBurst),
	}, nil
}

// AILimiterHandle wraps the per-user suggestion rate limiter.
type AILimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *AILimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAILimiter provides the per-user limiter for AI suggestions.
func ProvideAILimiter(i do.Injector) (*AILimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	perMinute := cfg.RateLimit.AIRequestsPerMinute
	return &AILimiterHandle{
		KeyedRateLimiter: ratelimit.New(ratelimit.PerMinute(float64(perMinute)), perMinute),
	}, nil
}
