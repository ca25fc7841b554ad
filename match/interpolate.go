package match

import "github.com/poiesic/rematch/core"

// interpolate runs Layer 4. Every position still without a span receives a
// synthetic one placed relative to the nearest anchors, the spans produced by
// Layers 1 to 3. Synthetic spans never serve as anchors themselves.
func (r *run) interpolate() {
	n := len(r.chunks)
	before := make([]int, n)
	after := make([]int, n)
	prev := -1
	for i := 0; i < n; i++ {
		before[i] = prev
		if r.spans[i] != nil {
			prev = i
		}
	}
	next := -1
	for i := n - 1; i >= 0; i-- {
		after[i] = next
		if r.spans[i] != nil {
			next = i
		}
	}

	var pending []int
	for i := range r.spans {
		if r.spans[i] == nil {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}
	r.monitor.LayerStarted(LayerInterpolation, len(pending))
	for _, i := range pending {
		r.assign(i, LayerInterpolation, r.estimate(i, before[i], after[i]))
	}
	r.monitor.LayerFinished(LayerInterpolation, len(pending))
}

// estimate places position i given the indices of its anchors, -1 when absent.
func (r *run) estimate(i, b, a int) span {
	targetLen := len(r.target)
	size := len(r.chunks[i].Content)
	endCap := targetLen

	var pos float64
	switch {
	case b >= 0 && a >= 0:
		bs, as := r.spans[b], r.spans[a]
		gap := float64(max(0, as.start-bs.end))
		slots := float64(a - b)
		pos = float64(bs.end) + float64(i-b)/slots*gap
		// the next slot boundary keeps synthetic spans from overlapping each other
		endCap = int(float64(bs.end) + float64(i+1-b)/slots*gap)
	case b >= 0:
		bs := r.spans[b]
		pos = float64(bs.end + (bs.end-bs.start)*(i-b-1))
	case a >= 0:
		as := r.spans[a]
		pos = float64(as.start - (as.end-as.start)*(a-i-1) - size)
	default:
		pos = float64(i) / float64(len(r.chunks)) * float64(targetLen)
	}

	start := snapBack(r.target, min(max(int(pos), 0), targetLen))
	end := min(start+size, targetLen, max(endCap, start))
	end = snapForward(r.target, end)

	return span{
		start:      start,
		end:        end,
		confidence: core.ConfidenceSynthetic,
		method:     core.MethodInterpolation,
		similarity: 0,
	}
}
