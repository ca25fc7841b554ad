package match

import (
	"fmt"

	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/similarity"
)

// window is a [start, end) byte range of the target.
type window struct {
	start int
	end   int
}

// buildWindows covers target with windows of size bytes, consecutive windows
// overlapping by the given fraction. Boundaries are snapped to rune starts.
func buildWindows(target string, size int, overlap float64) []window {
	if len(target) == 0 {
		return nil
	}
	size = max(size, 1)
	stride := max(1, int(float64(size)*(1-overlap)))

	var windows []window
	for pos := 0; ; pos += stride {
		start := snapBack(target, pos)
		end := snapForward(target, start+size)
		if len(windows) == 0 || windows[len(windows)-1].start != start {
			windows = append(windows, window{start, end})
		}
		if end >= len(target) {
			return windows
		}
	}
}

// windowSize returns the average span length matched so far, falling back to
// the average content length of the pending chunks.
func (r *run) windowSize(pending []int) int {
	total, count := 0, 0
	for _, s := range r.spans {
		if s != nil {
			total += s.end - s.start
			count++
		}
	}
	if count == 0 {
		for _, pos := range pending {
			total += len(r.chunks[pos].Content)
		}
		count = len(pending)
	}
	if count == 0 {
		return 1
	}
	return max(1, total/count)
}

// matchEmbeddings runs Layer 2: one batched call for the pending chunk
// contents, one for the target windows, then a best-window search per chunk.
func (m *Matcher) matchEmbeddings(r *run) {
	pending := r.pending()
	if m.embedder == nil || len(pending) == 0 || r.expired() {
		return
	}
	r.monitor.LayerStarted(LayerEmbedding, len(pending))

	windows := buildWindows(r.target, r.windowSize(pending), m.config.WindowOverlap)
	if len(windows) == 0 {
		r.monitor.LayerFinished(LayerEmbedding, 0)
		return
	}

	contents := make([]string, len(pending))
	for j, pos := range pending {
		contents[j] = r.chunks[pos].Content
	}
	windowTexts := make([]string, len(windows))
	for k, w := range windows {
		windowTexts[k] = r.target[w.start:w.end]
	}

	chunkVectors, err := m.embed(r, contents)
	if err == nil {
		var windowVectors [][]float32
		windowVectors, err = m.embed(r, windowTexts)
		if err == nil {
			err = checkDimensions(chunkVectors, windowVectors)
		}
		if err == nil {
			matched := m.assignWindows(r, pending, windows, chunkVectors, windowVectors)
			r.logger.Debug("embedding layer finished", "pending", len(pending), "windows", len(windows), "matched", matched)
			r.monitor.LayerFinished(LayerEmbedding, matched)
			return
		}
	}

	if !r.expired() {
		r.providerFailure(-1, err)
	}
	r.monitor.LayerFinished(LayerEmbedding, 0)
}

// assignWindows scores every chunk against every window. Vectors are scaled to
// unit length once, so each pair costs one dot product.
func (m *Matcher) assignWindows(r *run, pending []int, windows []window, chunkVectors, windowVectors [][]float32) int {
	chunkVectors, windowVectors = unitVectors(chunkVectors), unitVectors(windowVectors)
	matched := 0
	for j, pos := range pending {
		best, bestSim := -1, -2.0
		for k := range windows {
			if sim := similarity.DotProduct(chunkVectors[j], windowVectors[k]); sim > bestSim {
				best, bestSim = k, sim
			}
		}
		if best < 0 || bestSim < m.config.EmbeddingThreshold {
			continue
		}
		confidence := core.ConfidenceMedium
		if bestSim >= m.config.EmbeddingHighThreshold {
			confidence = core.ConfidenceHigh
		}
		r.assign(pos, LayerEmbedding, span{
			start:      windows[best].start,
			end:        windows[best].end,
			confidence: confidence,
			method:     core.MethodEmbedding,
			similarity: min(bestSim, 1.0),
		})
		matched++
	}
	return matched
}

func unitVectors(vectors [][]float32) [][]float32 {
	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = similarity.NormalizeVector(v)
	}
	return out
}

// embed calls the embedder with retries and checks the vector count.
func (m *Matcher) embed(r *run, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := retryCall(r.ctx, r.logger, "EmbedTexts", m.config.ProviderRetries, m.config.RetryDelay, func() error {
		var err error
		vectors, err = m.embedder.EmbedTexts(r.ctx, texts)
		return err
	})
	if err != nil {
		return nil, &ProviderError{Provider: "embedder", Op: "EmbedTexts", Err: err}
	}
	if len(vectors) != len(texts) {
		return nil, &ProviderError{Provider: "embedder", Op: "EmbedTexts",
			Err: fmt.Errorf("returned %d vectors for %d texts", len(vectors), len(texts))}
	}
	return vectors, nil
}

// checkDimensions requires every vector to be non-empty and of one length.
func checkDimensions(groups ...[][]float32) error {
	dim := -1
	for _, vectors := range groups {
		for _, v := range vectors {
			if dim < 0 {
				dim = len(v)
			}
			if len(v) == 0 || len(v) != dim {
				return &ProviderError{Provider: "embedder", Op: "EmbedTexts",
					Err: fmt.Errorf("inconsistent vector dimensions %d and %d", dim, len(v))}
			}
		}
	}
	return nil
}
