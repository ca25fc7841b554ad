package match

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/rematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressMonitor_LayerLine(t *testing.T) {
	tests := []struct {
		name    string
		every   int
		matches int
		redraws int
	}{
		{"every chunk", 1, 4, 4},
		{"every second chunk", 2, 4, 2},
		{"interval above count", 10, 4, 0},
		{"interval below one", 0, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			monitor := NewProgressMonitor(&buf, tt.every)

			monitor.LayerStarted(LayerFuzzy, tt.matches)
			for i := 0; i < tt.matches; i++ {
				monitor.ChunkMatched(LayerFuzzy, core.MatchResult{ChunkIndex: i})
			}
			assert.Equal(t, tt.redraws, strings.Count(buf.String(), "\r[fuzzy]"))

			monitor.LayerFinished(LayerFuzzy, tt.matches)
			out := buf.String()
			assert.Contains(t, out, fmt.Sprintf("\r[fuzzy] placed %d of %d in ", tt.matches, tt.matches))
			assert.True(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestProgressMonitor_IgnoresOtherLayers(t *testing.T) {
	var buf bytes.Buffer
	monitor := NewProgressMonitor(&buf, 1)

	monitor.LayerStarted(LayerEmbedding, 3)
	monitor.ChunkMatched(LayerFuzzy, core.MatchResult{})

	assert.Empty(t, buf.String())
}

func TestProgressMonitor_Correction(t *testing.T) {
	var buf bytes.Buffer
	NewProgressMonitor(&buf, 1).OrderCorrected(core.CorrectionEvent{
		ChunkIndex: 3, OldStart: 8, OldEnd: 9, NewStart: 14, NewEnd: 17,
		OldConfidence: core.ConfidenceMedium, NewConfidence: core.ConfidenceSynthetic,
	})

	assert.Equal(t, "  chunk 3 moved [8, 9) -> [14, 17), medium -> synthetic\n", buf.String())
}

func TestProgressMonitor_WithMatcher(t *testing.T) {
	var buf bytes.Buffer
	target := "Alpha sentence here. Some filler text goes right here to make a gap. Omega sentence here."
	chunks := chunksFrom("Alpha sentence here.", "zzzz qqqq xxxx", "Omega sentence here.")

	_, err := newTestMatcher(t, nil).MatchWithMonitor(context.Background(), chunks, target, NewProgressMonitor(&buf, 1))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "3 chunks, 89 bytes of target text")
	assert.Contains(t, out, "[fuzzy] placed 2 of 3")
	assert.Contains(t, out, "[interpolation] placed 1 of 1")
	assert.Contains(t, out, "2 anchored, 1 interpolated, 0 corrections, 0 warnings in ")
}
