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


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk validates a SourceChunk according to domain rules.
//
// Validation rules:
//   - Content must contain at least one non-whitespace character
//
// NOT validated (passed through untouched):
//   - Metadata
//   - Index (ordering is checked across chunks by ValidateChunkOrder)
func ValidateChunk(chunk *SourceChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrMalformedChunk)
	}

	if strings.TrimSpace(chunk.Content) == "" {
		return fmt.Errorf("%w: index %d: %w", ErrMalformedChunk, chunk.Index, ErrEmptyContent)
	}

	return nil
}

// ValidateChunkOrder checks that chunk indices are strictly increasing.
// Ordering is a precondition supplied by the extractor and is never re-derived.
func ValidateChunkOrder(chunks []SourceChunk) error {
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Index <= chunks[i-1].Index {
			return fmt.Errorf("%w: index %d follows %d at position %d",
				ErrChunkOrder, chunks[i].Index, chunks[i-1].Index, i)
		}
	}
	return nil
}

// ValidateMatchResult checks that a result lies within a target of targetLen bytes.
//
// Validation rules:
//   - 0 <= StartOffset <= EndOffset <= targetLen
//   - Confidence and Method are known values
func ValidateMatchResult(result *MatchResult, targetLen int) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidMatchResult)
	}

	if result.StartOffset < 0 || result.StartOffset > result.EndOffset || result.EndOffset > targetLen {
		return fmt.Errorf("%w: chunk %d: [%d, %d) with target length %d: %w",
			ErrInvalidMatchResult, result.ChunkIndex, result.StartOffset, result.EndOffset, targetLen, ErrOffsetOutOfBounds)
	}

	if _, ok := confidenceNames[result.Confidence]; !ok {
		return fmt.Errorf("%w: chunk %d: %w", ErrInvalidMatchResult, result.ChunkIndex, ErrUnknownConfidence)
	}

	if _, ok := methodNames[result.Method]; !ok {
		return fmt.Errorf("%w: chunk %d: %w", ErrInvalidMatchResult, result.ChunkIndex, ErrUnknownMethod)
	}

	return nil
}
