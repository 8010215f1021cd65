package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/logger"
	"github.com/coloredin/coloredin-server/internal/search"
	"github.com/coloredin/coloredin-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index

	// Fresh is true when the index was created on this start.
	Fresh bool
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve palette index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, fresh, err := search.Open(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount, "fresh", fresh)

	return &SearchIndexHandle{Index: index, Fresh: fresh}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index from SQLite when it is
// fresh or empty while palettes exist. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	paletteStore := do.MustInvoke[*PaletteStoreHandle](i)
	paletteService := do.MustInvoke[*service.PaletteService](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if !indexHandle.Fresh && docCount > 0 {
		return
	}

	ctx := context.Background()
	palettes, err := paletteStore.ListAllPalettes(ctx)
	if err != nil || len(palettes) == 0 {
		return
	}

	log.Info("Search index is empty but palettes exist, triggering reindex",
		"palette_count", len(palettes),
	)

	go func() {
		reindexCtx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
		defer cancel()
		if _, err := paletteService.Reindex(reindexCtx); err != nil {
			log.WithError(err).Error("Initial search reindex failed")
		} else {
			count, _ := indexHandle.DocumentCount()
			log.WithField("documents", count).Info("Initial search reindex completed")
		}
	}()
}
