package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD over JSON-encoded values of type T stored
// under a key prefix, with optional secondary indexes.
//
// Key layout:
//
//	<prefix><id>                          value
//	<prefix>idx:<name>:<value>:<id>       id
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index is a secondary index on an entity.
type Index[T any] struct {
	name   string
	keyGen func(*T) []string
}

// NewEntity creates an Entity for type T under prefix.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{store: s, prefix: prefix}
}

// WithIndex adds an index whose values may be shared by many entities.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen})
	return e
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

func (e *Entity[T]) indexPrefix(name, value string) string {
	return e.prefix + "idx:" + name + ":" + value
}

func (e *Entity[T]) indexKeys(idx Index[T], id string, v *T) [][]byte {
	values := idx.keyGen(v)
	keys := make([][]byte, 0, len(values))
	for _, value := range values {
		keys = append(keys, []byte(e.indexPrefix(idx.name, value)+":"+id))
	}
	return keys
}

func (e *Entity[T]) read(txn *badger.Txn, id string) (*T, error) {
	k := buildKey(e.prefix, id)
	defer releaseKey(k)

	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var v T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return &v, nil
}

// write stores v under id, replacing old's index entries. old may be nil.
func (e *Entity[T]) write(txn *badger.Txn, id string, old, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if old != nil {
		if err := e.deleteIndexes(txn, id, old); err != nil {
			return err
		}
	}

	for _, idx := range e.indexes {
		for _, k := range e.indexKeys(idx, id, v) {
			if err := txn.Set(k, []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}

	if err := txn.Set(e.key(id), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (e *Entity[T]) deleteIndexes(txn *badger.Txn, id string, v *T) error {
	for _, idx := range e.indexes {
		for _, k := range e.indexKeys(idx, id, v) {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}
	return nil
}

// Create stores v under id. Returns ErrAlreadyExists if id is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.db.Update(func(txn *badger.Txn) error {
		if _, err := e.read(txn, id); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		return e.write(txn, id, nil, v)
	})
}

// Put creates or replaces the value under id.
func (e *Entity[T]) Put(ctx context.Context, id string, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.read(txn, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return e.write(txn, id, old, v)
	})
}

// Get returns the value under id, or ErrNotFound.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var v *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		v, err = e.read(txn, id)
		return err
	})
	return v, err
}

// Delete removes id and its index entries. Missing ids are not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.read(txn, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := e.deleteIndexes(txn, id, old); err != nil {
			return err
		}
		return txn.Delete(e.key(id))
	})
}

// ListByIndex yields every entity carrying value in a multi index.
func (e *Entity[T]) ListByIndex(ctx context.Context, name, value string) iter.Seq2[*T, error] {
	prefix := []byte(e.indexPrefix(name, value) + ":")
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}
				id, err := it.Item().ValueCopy(nil)
				if err != nil {
					yield(nil, err)
					return err
				}
				v, err := e.read(txn, string(id))
				if err != nil {
					yield(nil, err)
					return err
				}
				if !yield(v, nil) {
					return nil
				}
			}
			return nil
		})
	}
}
