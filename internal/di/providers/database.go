package providers

import (
	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/logger"
	"github.com/coloredin/coloredin-server/internal/store"
	"github.com/coloredin/coloredin-server/internal/store/sqlite"
)

// StoreHandle wraps the subscription store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the Badger-backed subscription store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.BadgerPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Subscription store initialized", "path", cfg.BadgerPath())

	return &StoreHandle{Store: db}, nil
}

// PaletteStoreHandle wraps the SQLite palette store with shutdown capability.
type PaletteStoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *PaletteStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvidePaletteStore provides the SQLite store holding user palettes.
func ProvidePaletteStore(i do.Injector) (*PaletteStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.SQLitePath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Palette database initialized", "path", cfg.SQLitePath())

	return &PaletteStoreHandle{Store: db}, nil
}
