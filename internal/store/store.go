// Package store persists subscriptions and processed billing events in
// Badger. User palettes live in the SQLite store in package sqlite.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/coloredin/coloredin-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Subscriptions *Entity[domain.Subscription]
	BillingEvents *Entity[domain.BillingEventRecord]
}

// New opens (or creates) the Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's own logging is noisy and unstructured
	opts.SyncWrites = true       // Survive crashes without corrupting plan data
	opts.CompactL0OnClose = true // Faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.initSubscriptions()
	s.initBillingEvents()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing badger database")
	}
	return s.db.Close()
}

// Ping checks that the database can serve a read transaction.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}
