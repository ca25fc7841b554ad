package match

import (
	"strings"

	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/similarity"
)

const (
	minAutoStep = 5
	maxAutoStep = 10
)

// span is a located region of the target and the evidence behind it.
type span struct {
	start      int
	end        int
	confidence core.Confidence
	method     core.Method
	similarity float64
}

// fuzzyMatcher runs the Layer 1 strategies in order; the first success wins.
type fuzzyMatcher struct {
	config *Config
}

// match locates content in target, preferring occurrences at or after hint.
func (f *fuzzyMatcher) match(content, target string, hint int) (span, bool) {
	hint = snapBack(target, hint)

	if s, ok := f.exact(content, target, hint); ok {
		return s, true
	}
	if s, ok := f.normalized(content, target, hint); ok {
		return s, true
	}
	if f.config.EnableRelaxedPattern {
		if s, ok := f.relaxed(content, target, hint); ok {
			return s, true
		}
	}
	if s, ok := f.multiAnchor(content, target, hint); ok {
		return s, true
	}
	return f.slidingWindow(content, target, hint)
}

func (f *fuzzyMatcher) exact(content, target string, hint int) (span, bool) {
	start, end, ok := findFrom(target, hint, func(s string) []int {
		i := strings.Index(s, content)
		if i < 0 {
			return nil
		}
		return []int{i, i + len(content)}
	})
	if !ok {
		return span{}, false
	}
	return span{start, end, core.ConfidenceExact, core.MethodExact, 1.0}, true
}

func (f *fuzzyMatcher) normalized(content, target string, hint int) (span, bool) {
	re := flexiblePattern(similarity.Normalize(content))
	if re == nil {
		return span{}, false
	}
	start, end, ok := findFrom(target, hint, re.FindStringIndex)
	if !ok {
		return span{}, false
	}
	return span{start, end, core.ConfidenceHigh, core.MethodNormalized, similarity.EditSimilarity(content, target[start:end])}, true
}

func (f *fuzzyMatcher) relaxed(content, target string, hint int) (span, bool) {
	re := relaxedPattern(similarity.NormalizeRelaxed(content))
	if re == nil {
		return span{}, false
	}
	start, end, ok := findFrom(target, hint, re.FindStringIndex)
	if !ok {
		return span{}, false
	}
	return span{start, end, core.ConfidenceMedium, core.MethodRelaxed, similarity.EditSimilarity(content, target[start:end])}, true
}

// multiAnchor matches long chunks by their first, middle and last AnchorLength
// runes. The anchors must appear in order within MultiAnchorSpanFactor times the
// chunk length of the first anchor.
func (f *fuzzyMatcher) multiAnchor(content, target string, hint int) (span, bool) {
	runes := []rune(content)
	n := f.config.AnchorLength
	if len(runes) < 3*n {
		return span{}, false
	}
	mid := len(runes)/2 - n/2
	first := flexiblePattern(similarity.Normalize(string(runes[:n])))
	middle := flexiblePattern(similarity.Normalize(string(runes[mid : mid+n])))
	last := flexiblePattern(similarity.Normalize(string(runes[len(runes)-n:])))
	if first == nil || middle == nil || last == nil {
		return span{}, false
	}
	maxSpan := int(f.config.MultiAnchorSpanFactor * float64(len(content)))

	// try walks occurrences of the first anchor starting in [from, limit).
	try := func(from, limit int) (span, bool) {
		for i := 0; i < f.config.MaxScanIterations && from < limit; i++ {
			loc := first.FindStringIndex(target[from:])
			if loc == nil {
				return span{}, false
			}
			start, firstEnd := from+loc[0], from+loc[1]
			if start >= limit {
				return span{}, false
			}
			bound := min(start+maxSpan, len(target))
			if firstEnd <= bound {
				if m := middle.FindStringIndex(target[firstEnd:bound]); m != nil {
					middleEnd := firstEnd + m[1]
					if l := last.FindStringIndex(target[middleEnd:bound]); l != nil {
						end := middleEnd + l[1]
						return span{start, end, core.ConfidenceHigh, core.MethodMultiAnchor,
							similarity.EditSimilarity(content, target[start:end])}, true
					}
				}
			}
			from = snapForward(target, start+1)
		}
		return span{}, false
	}

	if s, ok := try(hint, len(target)+1); ok {
		return s, true
	}
	if hint > 0 {
		return try(0, hint)
	}
	return span{}, false
}

// slidingWindow scores windows of len(content) bytes by edit similarity.
// The region after hint is scanned first; the region before it only when that
// scan finds nothing acceptable.
func (f *fuzzyMatcher) slidingWindow(content, target string, hint int) (span, bool) {
	best, _ := f.windowSearch(content, target, hint)
	if best.similarity < f.config.EditSimilarityThreshold {
		return span{}, false
	}
	best.confidence = core.ConfidenceMedium
	if best.similarity >= f.config.EditHighThreshold {
		best.confidence = core.ConfidenceHigh
	}
	best.method = core.MethodSlidingWindow
	return best, true
}

// windowSearch returns the best window and the number of windows scored.
// Both passes and their refinements share MaxScanIterations probes; the first
// pass gets a share proportional to the length of its region.
func (f *fuzzyMatcher) windowSearch(content, target string, hint int) (span, int) {
	best := span{start: -1, similarity: -1}
	if len(target) == 0 {
		return best, 0
	}
	budget := f.config.MaxScanIterations
	beforeEnd := min(hint+len(content), len(target))

	first := budget
	if hint > 0 {
		after := len(target) - hint
		first = max(1, budget*after/(after+beforeEnd))
	}
	best, used := f.scan(content, target, hint, len(target), first)
	if best.similarity < f.config.EditSimilarityThreshold && hint > 0 && used < budget {
		alt, n := f.scan(content, target, 0, beforeEnd, budget-used)
		used += n
		if alt.similarity > best.similarity {
			best = alt
		}
	}
	return best, used
}

// scan probes window starts in [from, to-w] with a coarse step, then refines
// around the best probe with halving steps down to one byte. It scores at most
// budget windows; two thirds of them are planned for the coarse scan.
func (f *fuzzyMatcher) scan(content, target string, from, to, budget int) (span, int) {
	w := len(content)
	if to-from < w {
		from = max(0, to-w)
	}
	last := max(from, to-w)

	best := span{start: -1, similarity: -1}
	used := 0
	probe := func(p int) {
		used++
		start := snapBack(target, p)
		end := snapForward(target, min(start+w, len(target)))
		if sim := similarity.EditSimilarity(content, target[start:end]); sim > best.similarity {
			best = span{start: start, end: end, similarity: sim}
		}
	}

	step := f.step(w, last-from, max(1, budget*2/3))
	for p := from; p <= last && used < budget; p += step {
		probe(p)
	}
	for s := step / 2; s >= 1 && used < budget; s /= 2 {
		center := best.start
		for _, p := range []int{center - s, center + s} {
			if p >= from && p <= last && used < budget {
				probe(p)
			}
		}
	}
	return best, used
}

// step returns the coarse probe step for a window of w bytes over rangeLen
// start positions, widened so the coarse scan takes at most probes probes.
func (f *fuzzyMatcher) step(w, rangeLen, probes int) int {
	step := f.config.SlidingWindowStep
	if step <= 0 {
		step = min(max(w/20, minAutoStep), maxAutoStep)
	}
	if rangeLen/step+1 > probes {
		if probes == 1 {
			return rangeLen + 1
		}
		step = (rangeLen + probes - 2) / (probes - 1)
	}
	return step
}
