package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/api"
	"github.com/coloredin/coloredin-server/internal/auth"
	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/logger"
	"github.com/coloredin/coloredin-server/internal/service"
)

// Version is the server version reported in the OpenAPI document.
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	paletteStore := do.MustInvoke[*PaletteStoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	apiLimiter := do.MustInvoke[*APILimiterHandle](i)

	services := &api.Services{
		Catalog:      do.MustInvoke[*service.CatalogService](i),
		Palette:      do.MustInvoke[*service.PaletteService](i),
		Feed:         do.MustInvoke[*service.FeedService](i),
		Subscription: do.MustInvoke[*service.SubscriptionService](i),
		Suggestion:   do.MustInvoke[*service.SuggestionService](i),
		Preview:      do.MustInvoke[*service.PreviewService](i),
	}

	if cfg.Billing.WebhookSecret == "" {
		log.Warn("Billing webhook secret not set, webhook endpoint will reject deliveries")
	}

	apiServer := api.NewServer(services, tokens, api.Options{
		Title:         cfg.App.Name + " API",
		Version:       Version,
		CORSOrigins:   cfg.Server.CORSOrigins,
		BillingSecret: cfg.Billing.WebhookSecret,
		Limiter:       apiLimiter.KeyedRateLimiter,
		Checks: map[string]api.HealthCheck{
			"subscriptions": storeHandle.Ping,
			"palettes":      paletteStore.Ping,
			"search": func(context.Context) error {
				_, err := indexHandle.DocumentCount()
				return err
			},
		},
		RequestLog: !cfg.IsProduction(),
	}, log.Logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server failed")
		}
	}()

	return &HTTPServerHandle{Server: httpServer}, nil
}

