package match

import (
	"fmt"

	"github.com/poiesic/rematch/core"
)

// Layer identifies a stage of the matching cascade.
type Layer int

const (
	LayerFuzzy Layer = iota + 1
	LayerEmbedding
	LayerAssisted
	LayerInterpolation
)

func (l Layer) String() string {
	switch l {
	case LayerFuzzy:
		return "fuzzy"
	case LayerEmbedding:
		return "embedding"
	case LayerAssisted:
		return "assisted"
	case LayerInterpolation:
		return "interpolation"
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// MatchMonitor provides hooks to observe a matching run.
// Implement this interface to track progress and intermediate results.
// All hooks are called from the goroutine running Match, in cascade order.
type MatchMonitor interface {
	Start(runID string, chunks int, targetLen int)
	LayerStarted(layer Layer, pending int)
	ChunkMatched(layer Layer, result core.MatchResult)
	LayerFinished(layer Layer, matched int)
	OrderCorrected(event core.CorrectionEvent)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int, _ int)             {}
func (n *noopMonitor) LayerStarted(_ Layer, _ int)              {}
func (n *noopMonitor) ChunkMatched(_ Layer, _ core.MatchResult) {}
func (n *noopMonitor) LayerFinished(_ Layer, _ int)             {}
func (n *noopMonitor) OrderCorrected(_ core.CorrectionEvent)    {}
func (n *noopMonitor) Finish(_ *Result)                         {}
