package match

import (
	"time"

	"github.com/poiesic/rematch/core"
)

// Result is the outcome of one matching run.
// Results holds one entry per input chunk, in chunk order.
type Result struct {
	Results  []core.MatchResult `json:"results"`
	Warnings []core.Warning     `json:"warnings"`
	Stats    Stats              `json:"stats"`
}

// Corrections returns the offset corrections applied by the sequencing pass.
func (r *Result) Corrections() []core.CorrectionEvent {
	var events []core.CorrectionEvent
	for _, w := range r.Warnings {
		if w.Correction != nil {
			events = append(events, *w.Correction)
		}
	}
	return events
}

// Stats aggregates a run for reporting.
type Stats struct {
	RunID            string                  `json:"run_id"`
	Chunks           int                     `json:"chunks"`
	ByConfidence     map[core.Confidence]int `json:"by_confidence"`
	ByMethod         map[core.Method]int     `json:"by_method"`
	Corrections      int                     `json:"corrections"`
	MalformedChunks  int                     `json:"malformed_chunks"`
	ProviderFailures int                     `json:"provider_failures"`
	TimedOut         bool                    `json:"timed_out"`
	Duration         time.Duration           `json:"duration"`
}

// AnchorRatio returns the share of chunks placed with textual evidence.
func (s *Stats) AnchorRatio() float64 {
	if s.Chunks == 0 {
		return 0
	}
	return float64(s.Chunks-s.ByConfidence[core.ConfidenceSynthetic]) / float64(s.Chunks)
}

func newStats(runID string, chunks int) Stats {
	return Stats{
		RunID:        runID,
		Chunks:       chunks,
		ByConfidence: make(map[core.Confidence]int),
		ByMethod:     make(map[core.Method]int),
	}
}
