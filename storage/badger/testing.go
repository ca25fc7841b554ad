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

import "github.com/poiesic/rematch/storage"

// memoryVectorStore owns its in-memory backend and closes it with the store.
type memoryVectorStore struct {
	*VectorRepository
}

func (m *memoryVectorStore) Close() error {
	return m.backend.Close()
}

// NewMemoryVectorStore creates an in-memory vector store for testing.
// Closing the store closes its private backend.
func NewMemoryVectorStore(namespace string) (storage.VectorStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	repo, err := newVectorRepository(backend, namespace)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &memoryVectorStore{VectorRepository: repo}, nil
}
