// Package providers contains dependency injection providers for the Colored In server.
package providers

import (
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/logger"
)

// ProvideConfig provides the application configuration from the process arguments.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load(os.Args[1:])
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting "+cfg.App.Name,
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.App.DataDir,
		"ai_enabled", cfg.AI.Enabled,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
