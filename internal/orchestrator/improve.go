package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"photostudio/internal/domain"
	"photostudio/internal/providers/image"
)

// Improvement is the handle for one in-flight improve call.
type Improvement struct {
	ResultID string

	done chan struct{}
}

// Wait blocks until the improve call has settled.
func (i *Improvement) Wait() { <-i.done }

// Done returns a channel closed once the improve call has settled.
func (i *Improvement) Done() <-chan struct{} { return i.done }

// Improve re-runs one completed result through image generation with a
// user-supplied instruction, chaining the edit off the item's current
// payload rather than the original upload. Preconditions are checked
// synchronously: the item must exist and be completed, and the instruction
// must be non-empty; otherwise the call is rejected without side effect.
func (e *Engine) Improve(ctx context.Context, resultID, instruction string) (*Improvement, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, fmt.Errorf("%w: improvement prompt is empty", domain.ErrInvalidState)
	}

	// The one permitted Completed→Pending transition. The returned item still
	// carries its payload, which doubles as the fallback.
	item, err := e.store.MarkImproving(resultID)
	if err != nil {
		return nil, err
	}

	imp := &Improvement{ResultID: resultID, done: make(chan struct{})}
	e.logger.Info().Str("result_id", resultID).Msg("orchestrator: improvement started")

	go e.runImprove(context.WithoutCancel(ctx), imp, item, instruction)
	return imp, nil
}

func (e *Engine) runImprove(ctx context.Context, imp *Improvement, item domain.ResultItem, instruction string) {
	defer close(imp.done)

	fallback := item.Data
	fallbackMIME := item.MIMEType

	out, err := e.images.Generate(ctx, image.Payload{Data: fallback, MIMEType: fallbackMIME}, instruction)
	if err != nil {
		// Never leave the user without a viewable image for a previously
		// successful item: restore the fallback payload alongside the failure.
		e.logger.Warn().Err(err).Str("result_id", imp.ResultID).Msg("orchestrator: improvement failed, restoring fallback")
		e.store.RestoreResult(imp.ResultID, fallback, fallbackMIME)
		return
	}

	e.store.CompleteResult(imp.ResultID, out.Data, out.MIMEType)
	e.logger.Info().Str("result_id", imp.ResultID).Msg("orchestrator: improvement completed")
}
