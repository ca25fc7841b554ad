package match

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/rematch/core"
)

// ProgressMonitor writes a line per layer, a line per order correction and a
// closing summary. While a layer runs, its line is redrawn every `every`
// placed chunks.
type ProgressMonitor struct {
	mu         sync.Mutex
	out        io.Writer
	every      int
	layer      Layer
	pending    int
	placed     int
	runBegan   time.Time
	layerBegan time.Time
}

var _ MatchMonitor = (*ProgressMonitor)(nil)

// NewProgressMonitor returns a monitor writing to out, redrawing the layer
// line every `every` chunks. Values below 1 redraw on every chunk.
func NewProgressMonitor(out io.Writer, every int) *ProgressMonitor {
	return &ProgressMonitor{out: out, every: max(every, 1)}
}

func (p *ProgressMonitor) Start(runID string, chunks int, targetLen int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runBegan = time.Now()
	fmt.Fprintf(p.out, "run %s: %d chunks, %d bytes of target text\n", runID, chunks, targetLen)
}

func (p *ProgressMonitor) LayerStarted(layer Layer, pending int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.layer, p.pending, p.placed = layer, pending, 0
	p.layerBegan = time.Now()
}

func (p *ProgressMonitor) ChunkMatched(layer Layer, _ core.MatchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if layer != p.layer {
		return
	}
	p.placed++
	if p.placed%p.every == 0 {
		p.drawLayer()
	}
}

func (p *ProgressMonitor) LayerFinished(layer Layer, matched int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.layer, p.placed = layer, matched
	p.drawLayer()
	fmt.Fprintf(p.out, " in %s\n", time.Since(p.layerBegan).Round(time.Millisecond))
}

func (p *ProgressMonitor) OrderCorrected(event core.CorrectionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "  chunk %d moved [%d, %d) -> [%d, %d), %s -> %s\n",
		event.ChunkIndex, event.OldStart, event.OldEnd, event.NewStart, event.NewEnd,
		event.OldConfidence, event.NewConfidence)
}

func (p *ProgressMonitor) Finish(result *Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	synthetic := result.Stats.ByConfidence[core.ConfidenceSynthetic]
	fmt.Fprintf(p.out, "%d anchored, %d interpolated, %d corrections, %d warnings in %s\n",
		len(result.Results)-synthetic, synthetic, result.Stats.Corrections, len(result.Warnings),
		time.Since(p.runBegan).Round(time.Millisecond))
}

// drawLayer redraws the current layer line. Caller holds mu.
func (p *ProgressMonitor) drawLayer() {
	fmt.Fprintf(p.out, "\r[%s] placed %d of %d", p.layer, p.placed, p.pending)
}
