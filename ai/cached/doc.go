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


// Package cached provides an ai.Embedder decorator that remembers vectors.
//
// Lookups go to an in-process go-cache first, then to an optional
// storage.VectorStore. Only texts missing from both are sent to the wrapped
// embedder, in a single batch, and the fresh vectors are written back to both
// layers. Keys are content IDs derived from the model name and the text, so a
// store shared between models never mixes dimensions.
//
// Store failures are logged and treated as cache misses; they never fail an
// embedding call that the wrapped embedder could still answer.
package cached
