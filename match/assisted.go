package match

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/rematch/ai"
	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/similarity"
)

// locateOutcome is the result slot of one Layer 3 task.
type locateOutcome struct {
	span *span
	err  error
}

type locateReply struct {
	result ai.LocateResult
	err    error
}

// matchAssisted runs Layer 3: every pending chunk is handed to the locator
// with a window around its estimated position. Calls run on the worker pool;
// each task writes only its own outcome slot.
func (m *Matcher) matchAssisted(r *run) {
	pending := r.pending()
	if m.locator == nil || len(pending) == 0 || r.expired() {
		return
	}
	r.monitor.LayerStarted(LayerAssisted, len(pending))

	outcomes := make([]locateOutcome, len(pending))
	var wg sync.WaitGroup
	for j, pos := range pending {
		wg.Add(1)
		err := m.pool.Submit(func() {
			defer wg.Done()
			outcomes[j].span, outcomes[j].err = m.locate(r, pos)
		})
		if err != nil {
			wg.Done()
			outcomes[j].err = &ProviderError{Provider: "locator", Op: "submit", Err: err}
		}
	}
	wg.Wait()

	matched := 0
	for j, pos := range pending {
		out := outcomes[j]
		switch {
		case out.err != nil:
			if r.ctx.Err() == nil {
				r.providerFailure(r.chunks[pos].Index, out.err)
			}
		case out.span != nil:
			r.assign(pos, LayerAssisted, *out.span)
			matched++
		}
	}
	r.expired()
	r.logger.Debug("assisted layer finished", "pending", len(pending), "matched", matched)
	r.monitor.LayerFinished(LayerAssisted, matched)
}

// locate estimates the chunk position, carves a window around it and asks the
// locator. A nil span with a nil error means the locator found nothing usable.
func (m *Matcher) locate(r *run, pos int) (*span, error) {
	target := r.target
	content := r.chunks[pos].Content

	estimate := int(float64(pos) / float64(len(r.chunks)) * float64(len(target)))
	windowStart := snapBack(target, estimate-m.config.LocateHalfWidth)
	windowEnd := snapForward(target, estimate+m.config.LocateHalfWidth)
	window := target[windowStart:windowEnd]

	if m.limiter != nil {
		if err := m.limiter.Wait(r.ctx); err != nil {
			return nil, err
		}
	}

	var found ai.LocateResult
	err := retryCall(r.ctx, r.logger, "Locate", m.config.ProviderRetries, m.config.RetryDelay, func() error {
		var err error
		found, err = m.locateOnce(r.ctx, content, window)
		if errors.Is(err, context.DeadlineExceeded) && r.ctx.Err() == nil {
			// a call that hit LocateTimeout is not retried
			return permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, &ProviderError{Provider: "locator", Op: "Locate", Err: err}
	}
	if !found.Found {
		return nil, nil
	}
	if found.RelativeStart < 0 || found.RelativeEnd <= found.RelativeStart || found.RelativeEnd > len(window) {
		r.logger.Debug("locator returned invalid range",
			"chunk", r.chunks[pos].Index, "start", found.RelativeStart, "end", found.RelativeEnd, "window", len(window))
		return nil, nil
	}

	start := snapBack(target, windowStart+found.RelativeStart)
	end := snapForward(target, windowStart+found.RelativeEnd)
	return &span{
		start:      start,
		end:        end,
		confidence: core.ConfidenceMedium,
		method:     core.MethodAssisted,
		similarity: similarity.EditSimilarity(content, target[start:end]),
	}, nil
}

// locateOnce bounds a single locator call by LocateTimeout, even when the
// locator ignores its context.
func (m *Matcher) locateOnce(ctx context.Context, content, window string) (ai.LocateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.config.LocateTimeout)
	defer cancel()

	replies := make(chan locateReply, 1)
	go func() {
		result, err := m.locator.Locate(ctx, content, window)
		replies <- locateReply{result, err}
	}()

	select {
	case reply := <-replies:
		return reply.result, reply.err
	case <-ctx.Done():
		return ai.LocateResult{}, ctx.Err()
	}
}
