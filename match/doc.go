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


// Package match recovers the position of extractor chunks inside a transformed text.
//
// The Matcher cascades every chunk through increasingly approximate layers
// until one of them produces a span:
//
//   - Layer 1, fuzzy: exact, whitespace-normalized and relaxed substring search,
//     multi-anchor search for long chunks, then a bounded sliding window scored
//     by edit similarity
//   - Layer 2, embedding: one batched embedding call for all remaining chunks,
//     compared by cosine similarity against overlapping windows of the target
//   - Layer 3, assisted: an ai.Locator asked to find the chunk in a window
//     around its estimated position, called concurrently on a worker pool
//   - Layer 4, interpolation: a synthetic span placed between the nearest
//     anchors; this layer cannot fail, so every chunk receives a result
//
// A final sequencing pass enforces non-overlapping, ordered spans. Spans that
// had to be moved are downgraded one confidence band and reported as
// corrections.
//
// Offsets are byte offsets into the target string. Estimated positions are
// snapped to UTF-8 rune boundaries, so target[start:end] is always valid text.
//
// Layers 2 and 3 are optional; a Matcher built without an embedder or locator
// skips them. Provider failures never fail a run: they are reported as
// warnings and the chunk falls through to the next layer.
package match
