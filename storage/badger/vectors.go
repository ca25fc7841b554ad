// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/storage"
)

// VectorRepository implements storage.VectorStore for BadgerDB.
// Vectors are isolated per namespace, typically the embedding model name, so
// switching models never returns vectors of a different dimension.
type VectorRepository struct {
	backend   *Backend
	namespace string
	logger    *slog.Logger
}

var _ storage.VectorStore = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository over an open backend.
//
// Returns storage.VectorStore interface to enforce abstraction.
func NewVectorRepository(backend *Backend, namespace string) (storage.VectorStore, error) {
	return newVectorRepository(backend, namespace)
}

func newVectorRepository(backend *Backend, namespace string) (*VectorRepository, error) {
	if backend == nil {
		return nil, errors.New("badger: backend is required")
	}
	return &VectorRepository{
		backend:   backend,
		namespace: namespace,
		logger:    backend.logger.With("namespace", namespace),
	}, nil
}

// Close releases resources. VectorRepository does not own the backend.
func (r *VectorRepository) Close() error {
	return nil
}

// GetVectors returns the stored vectors for keys. Missing keys are skipped.
func (r *VectorRepository) GetVectors(ctx context.Context, keys ...core.ID) (map[core.ID][]float32, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	found := make(map[core.ID][]float32, len(keys))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeVectorKey(r.namespace, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				stored, vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return fmt.Errorf("vector %d: %w", id, err)
				}
				if stored != id {
					return fmt.Errorf("vector %d: %w: stored under id %d", id, storage.ErrSerializationFailed, stored)
				}
				found[id] = vector
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded vectors", "requested", len(keys), "found", len(found))
	return found, nil
}

// PutVectors stores vectors in one transaction.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(vectors) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for id, vector := range vectors {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.Set(makeVectorKey(r.namespace, id), storage.MarshalVector(id, vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of vectors stored in the namespace.
func (r *VectorRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeVectorPrefix(r.namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}
