package match

import "github.com/poiesic/rematch/core"

// sequence enforces ordered, non-overlapping, in-bounds results in one pass.
// A result starting before the previous end is moved to that end, resized to
// its content length and downgraded one confidence band.
func sequence(results []core.MatchResult, chunks []core.SourceChunk, target string) []core.CorrectionEvent {
	targetLen := len(target)
	var events []core.CorrectionEvent
	prevEnd := 0

	for i := range results {
		res := &results[i]
		res.EndOffset = min(max(res.EndOffset, 0), targetLen)
		res.StartOffset = min(max(res.StartOffset, 0), res.EndOffset)

		if res.StartOffset < prevEnd {
			event := core.CorrectionEvent{
				ChunkIndex:    res.ChunkIndex,
				OldStart:      res.StartOffset,
				OldEnd:        res.EndOffset,
				OldConfidence: res.Confidence,
			}

			res.StartOffset = prevEnd
			end := max(prevEnd+len(chunks[i].Content), prevEnd+1)
			res.EndOffset = snapForward(target, min(end, targetLen))
			res.Confidence = res.Confidence.Downgrade()

			event.NewStart = res.StartOffset
			event.NewEnd = res.EndOffset
			event.NewConfidence = res.Confidence
			events = append(events, event)
		}

		prevEnd = res.EndOffset
	}
	return events
}
