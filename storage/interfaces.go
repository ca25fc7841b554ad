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


package storage

import (
	"context"

	"github.com/poiesic/rematch/core"
)

// VectorStore persists embedding vectors keyed by content ID.
type VectorStore interface {
	// GetVectors returns the stored vectors for the given keys.
	// Missing keys are simply absent from the result; they are not an error.
	GetVectors(ctx context.Context, keys ...core.ID) (map[core.ID][]float32, error)

	// PutVectors stores or replaces the given vectors in a single transaction.
	PutVectors(ctx context.Context, vectors map[core.ID][]float32) error

	// Close releases resources held by the store.
	// It does not close a backend shared with other stores.
	Close() error
}
