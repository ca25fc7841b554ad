package core

import (
	"encoding/binary"
	"encoding/json"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Metadata is the provenance an extractor attaches to a chunk.
// It is carried from SourceChunk to MatchResult without modification.
type Metadata struct {
	PageStart     *int            `json:"page_start"`
	PageEnd       *int            `json:"page_end"`
	HeadingPath   []string        `json:"heading_path,omitempty"`
	HeadingLevel  int             `json:"heading_level,omitempty"`
	SectionMarker string          `json:"section_marker,omitempty"`
	BBoxes        json.RawMessage `json:"bboxes,omitempty"` // opaque, passed through as-is
}

// SourceChunk is a segment of the document produced by a structural extractor.
// Chunks arrive ordered by Index; their original offsets are not trusted.
type SourceChunk struct {
	Index    int      `json:"index"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"meta"`
}

// MatchResult is the recovered location of one chunk inside the target text.
// StartOffset and EndOffset are byte offsets forming the half-open range [start, end).
type MatchResult struct {
	ChunkIndex  int        `json:"chunk_index"`
	StartOffset int        `json:"start_offset"`
	EndOffset   int        `json:"end_offset"`
	Confidence  Confidence `json:"confidence"`
	Method      Method     `json:"method"`
	Similarity  float64    `json:"similarity"`
	Metadata    Metadata   `json:"meta"`
}

// IsAnchor reports whether the result can serve as a trusted reference point.
func (r *MatchResult) IsAnchor() bool {
	return r.Confidence != ConfidenceSynthetic
}

// Length returns the size of the matched span.
func (r *MatchResult) Length() int {
	return r.EndOffset - r.StartOffset
}

// CorrectionEvent records an offset change applied to keep results in order.
type CorrectionEvent struct {
	ChunkIndex    int        `json:"chunk_index"`
	OldStart      int        `json:"old_start"`
	OldEnd        int        `json:"old_end"`
	NewStart      int        `json:"new_start"`
	NewEnd        int        `json:"new_end"`
	OldConfidence Confidence `json:"old_confidence"`
	NewConfidence Confidence `json:"new_confidence"`
}

// WarningKind classifies a Warning.
type WarningKind string

const (
	// WarningOrderCorrected marks a result moved forward by the sequencer.
	WarningOrderCorrected WarningKind = "order_corrected"
	// WarningMalformedChunk marks a chunk with no matchable content.
	WarningMalformedChunk WarningKind = "malformed_chunk"
	// WarningProviderFailure marks a failed embedding or locate call.
	WarningProviderFailure WarningKind = "provider_failure"
)

// Warning is a non-fatal condition observed during a run.
// ChunkIndex is -1 when the warning is not tied to a single chunk.
type Warning struct {
	Kind       WarningKind      `json:"kind"`
	ChunkIndex int              `json:"chunk_index"`
	Message    string           `json:"message,omitempty"`
	Correction *CorrectionEvent `json:"correction,omitempty"`
}
