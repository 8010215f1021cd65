package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/search"
	"github.com/coloredin/coloredin-server/internal/store"
	"github.com/coloredin/coloredin-server/internal/store/sqlite"
	"github.com/coloredin/coloredin-server/internal/validation"
)

// testEnv bundles services backed by real stores in a temp dir.
type testEnv struct {
	subsStore     *store.Store
	paletteStore  *sqlite.Store
	index         *search.Index
	catalog       *palette.Catalog
	subscriptions *SubscriptionService
	catalogSvc    *CatalogService
	palettes      *PaletteService
	feed          *FeedService
	previews      *PreviewService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := discardLogger()

	subsStore, err := store.New(filepath.Join(dir, "badger"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = subsStore.Close() })

	paletteStore, err := sqlite.Open(filepath.Join(dir, "palettes.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = paletteStore.Close() })

	index, _, err := search.Open(search.Options{DataPath: filepath.Join(dir, "search"), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	catalog := palette.NewCatalog()
	subscriptions := NewSubscriptionService(subsStore, validation.New(), logger)
	catalogSvc := NewCatalogService(catalog, subscriptions, logger)

	return &testEnv{
		subsStore:     subsStore,
		paletteStore:  paletteStore,
		index:         index,
		catalog:       catalog,
		subscriptions: subscriptions,
		catalogSvc:    catalogSvc,
		palettes:      NewPaletteService(paletteStore, index, validation.New(), logger),
		feed:          NewFeedService(paletteStore, catalogSvc, logger),
		previews:      NewPreviewService(catalogSvc, logger),
	}
}
