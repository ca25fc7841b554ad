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

import "errors"

// Domain validation errors
var (
	// ErrMalformedChunk indicates a SourceChunk cannot be matched textually.
	ErrMalformedChunk = errors.New("malformed chunk")

	// ErrEmptyContent indicates the Content field is empty or whitespace only.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrChunkOrder indicates chunk indices are not strictly increasing.
	ErrChunkOrder = errors.New("chunks must be ordered by strictly increasing index")

	// ErrInvalidMatchResult indicates a MatchResult failed validation.
	ErrInvalidMatchResult = errors.New("invalid match result")

	// ErrOffsetOutOfBounds indicates offsets fall outside the target text.
	ErrOffsetOutOfBounds = errors.New("offset out of bounds")

	// ErrUnknownConfidence indicates an unrecognized confidence band name.
	ErrUnknownConfidence = errors.New("unknown confidence")

	// ErrUnknownMethod indicates an unrecognized match method name.
	ErrUnknownMethod = errors.New("unknown match method")
)
