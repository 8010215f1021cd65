package search

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/coloredin/coloredin-server/internal/domain"
)

// Index wraps a Bleve index of user palettes.
//
// All public methods are safe for concurrent use. The mutex guards the index
// handle while Rebuild swaps it.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Discards output if nil
}

// mappingVersion is bumped whenever buildIndexMapping changes; a mismatch on
// startup drops the index so it can be rebuilt from the palette store.
const mappingVersion = "1"

const (
	indexDirName    = "palettes.bleve"
	versionFileName = "palettes.version"
	batchSize       = 500
)

// Open creates or opens the index under opts.DataPath. An index that is
// corrupt or was built with another mapping version is removed and recreated.
// The bool result is true whenever the returned index starts empty, so the
// caller knows to repopulate it from the palette store.
func Open(opts Options) (*Index, bool, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := os.MkdirAll(opts.DataPath, 0o750); err != nil {
		return nil, false, fmt.Errorf("create search dir: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, indexDirName)
	versionPath := filepath.Join(opts.DataPath, versionFileName)

	_, statErr := os.Stat(indexPath)
	indexExists := statErr == nil
	recreated := !indexExists

	var index bleve.Index
	if indexExists {
		existing, readErr := os.ReadFile(versionPath) //#nosec G304 -- derived from configured data dir
		switch {
		case readErr != nil:
			logger.Info("search index has no version file, rebuilding", "new_version", mappingVersion)
		case string(existing) != mappingVersion:
			logger.Info("search index mapping version changed, rebuilding",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
		default:
			var err error
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open existing index, recreating", "path", indexPath, "error", err)
				index = nil
			}
		}

		if index == nil {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, false, fmt.Errorf("remove old index: %w", err)
			}
			recreated = true
		}
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, false, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o600); err != nil {
			logger.Warn("failed to write search version file", "error", err)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, recreated, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexPalette adds or replaces a single palette.
func (s *Index) IndexPalette(p *domain.Palette) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := NewPaletteDocument(p)
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexPalettes indexes palettes in batches of 500.
func (s *Index) IndexPalettes(palettes []*domain.Palette) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < len(palettes); i += batchSize {
		end := min(i+batchSize, len(palettes))

		batch := s.index.NewBatch()
		for _, p := range palettes[i:end] {
			doc := NewPaletteDocument(p)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeletePalette removes a palette from the index. Unknown IDs are ignored.
func (s *Index) DeletePalette(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the total number of indexed palettes.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the index and repopulates it from palettes. It holds the
// exclusive lock for the duration, so searches block until it finishes.
func (s *Index) Rebuild(palettes []*domain.Palette) error {
	s.mu.Lock()
	if err := s.index.Close(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(s.path); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("remove index: %w", err)
	}
	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create index: %w", err)
	}
	s.index = index
	s.mu.Unlock()

	if err := s.IndexPalettes(palettes); err != nil {
		return err
	}
	s.logger.Info("rebuilt search index", "path", s.path, "palettes", len(palettes))
	return nil
}
