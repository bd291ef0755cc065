package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"photostudio/internal/catalog"
	"photostudio/internal/domain"
	"photostudio/internal/infra"
	"photostudio/internal/providers/image"
	"photostudio/internal/providers/prompt"
	"photostudio/internal/providers/vision"
	"photostudio/internal/refine"
	"photostudio/internal/session"
)

// BatchSize is the number of sibling result items created per style
// confirmation.
const BatchSize = 4

// Engine drives generation and improvement against the session store. All
// collaborator calls run on goroutines; the store applies their completion
// patches atomically by item id, so out-of-order and concurrent settlements
// reconcile without losing updates.
type Engine struct {
	store     *session.Store
	styles    *catalog.Catalog
	analyzer  vision.Analyzer
	refiner   *refine.Pipeline
	images    image.Generator
	suggester prompt.Suggester
	logger    infra.Logger
}

// Options wires the engine's collaborators. Suggester may be nil, disabling
// the suggestion sub-flow.
type Options struct {
	Store     *session.Store
	Styles    *catalog.Catalog
	Analyzer  vision.Analyzer
	Refiner   *refine.Pipeline
	Images    image.Generator
	Suggester prompt.Suggester
	Logger    infra.Logger
}

func NewEngine(opts Options) *Engine {
	return &Engine{
		store:     opts.Store,
		styles:    opts.Styles,
		analyzer:  opts.Analyzer,
		refiner:   opts.Refiner,
		images:    opts.Images,
		suggester: opts.Suggester,
		logger:    opts.Logger,
	}
}

// Store exposes the session store for read access by the host application.
func (e *Engine) Store() *session.Store { return e.store }

// Batch is the handle for one in-flight style generation. The promotion flag
// is carried here, per batch, so concurrently running batches never race on
// each other's first-success promotion.
type Batch struct {
	StyleID string
	IDs     []string

	promoted sync.Once
	done     chan struct{}
}

// Wait blocks until all four of the batch's generation calls have settled.
func (b *Batch) Wait() { <-b.done }

// Done returns a channel closed once the batch has fully settled.
func (b *Batch) Done() <-chan struct{} { return b.done }

// StartBatch confirms a style selection. It synchronously prepends four
// pending placeholders to the result collection, then asynchronously runs
// one prompt refinement for the batch and fans out four independent
// generation calls. Each call settles its own placeholder as it resolves;
// the first successful one is promoted to the session's active result.
func (e *Engine) StartBatch(ctx context.Context, styleID string) (*Batch, error) {
	style, ok := e.styles.Style(styleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStyle, styleID)
	}
	src, ok := e.store.ActiveSource()
	if !ok {
		return nil, domain.ErrNoSourceImage
	}
	description := e.store.ProductDescription()

	items := session.NewPending(style, BatchSize)
	e.store.PrependResults(items)

	batch := &Batch{
		StyleID: style.ID,
		IDs:     make([]string, len(items)),
		done:    make(chan struct{}),
	}
	for i, item := range items {
		batch.IDs[i] = item.ID
	}

	e.logger.Info().
		Str("style", style.ID).
		Str("source_id", src.ID).
		Int("batch_size", len(items)).
		Msg("orchestrator: batch started")

	// In-flight calls are never aborted by the caller going away; stale
	// outcomes are reconciled by id instead.
	go e.runBatch(context.WithoutCancel(ctx), batch, style, src, description)
	return batch, nil
}

func (e *Engine) runBatch(ctx context.Context, batch *Batch, style domain.StyleDescriptor, src domain.SourceImage, description string) {
	defer close(batch.done)

	// One refinement for the whole batch, not one per item.
	prompts := e.refiner.Refine(ctx, style.PromptTemplate, description)

	var g errgroup.Group
	for i, id := range batch.IDs {
		i, id := i, id
		g.Go(func() error {
			e.settle(ctx, batch, id, src, prompts[i])
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info().Str("style", style.ID).Msg("orchestrator: batch settled")
}

// settle resolves one generation call into an idempotent per-id patch.
// Failures isolate to this item; siblings are untouched.
func (e *Engine) settle(ctx context.Context, batch *Batch, id string, src domain.SourceImage, promptText string) {
	out, err := e.images.Generate(ctx, image.Payload{Data: src.Data, MIMEType: src.MIMEType}, promptText)
	if err != nil {
		e.logger.Warn().Err(err).Str("result_id", id).Msg("orchestrator: generation failed")
		e.store.FailResult(id)
		return
	}

	_, first := e.store.CompleteResult(id, out.Data, out.MIMEType)
	if !first {
		return
	}
	// First success in this batch wins promotion; later completions in the
	// same batch leave the active result alone.
	batch.promoted.Do(func() {
		if e.store.PromoteResult(id) {
			e.logger.Info().Str("result_id", id).Str("style", batch.StyleID).Msg("orchestrator: promoted first completed result")
		}
	})
}

// Suggestions fetches up to prompt.MaxSuggestions free-text improvement ideas
// for the current product. Failures are silent: the user can always type a
// manual prompt, so an empty list is returned instead of an error.
func (e *Engine) Suggestions(ctx context.Context) []string {
	if e.suggester == nil {
		return nil
	}
	items, err := e.suggester.Suggestions(ctx, e.store.ProductDescription())
	if err != nil {
		e.logger.Warn().Err(err).Msg("orchestrator: suggestion fetch failed")
		return nil
	}
	if len(items) > prompt.MaxSuggestions {
		items = items[:prompt.MaxSuggestions]
	}
	return items
}
