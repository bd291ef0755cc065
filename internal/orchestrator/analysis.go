package orchestrator

import (
	"context"
	"strings"

	"photostudio/internal/domain"
)

// AnalysisAdvisory is the session-level notice shown when product analysis
// fails; generation still works, but prompts will be less specific.
const AnalysisAdvisory = "Failed to analyze the product. You can still generate images, but prompts will be less specific."

// AddSource registers a new uploaded product photo, makes it the active
// source, and triggers exactly one analysis call for it. The returned channel
// closes when that analysis has settled.
func (e *Engine) AddSource(ctx context.Context, data []byte, mimeType string) (domain.SourceImage, <-chan struct{}, error) {
	src, err := e.store.AddSource(data, mimeType)
	if err != nil {
		return domain.SourceImage{}, nil, err
	}
	return src, e.analyze(ctx, src), nil
}

// SelectSource switches the active source image, invalidating the previous
// product description, and triggers one analysis call for the new image.
func (e *Engine) SelectSource(ctx context.Context, index int) (domain.SourceImage, <-chan struct{}, error) {
	src, err := e.store.SelectSource(index)
	if err != nil {
		return domain.SourceImage{}, nil, err
	}
	return src, e.analyze(ctx, src), nil
}

// analyze runs the analysis call off the calling goroutine. The result is
// applied through an identity-guarded patch: if the user has switched to a
// different source image by the time the response arrives, it is discarded.
func (e *Engine) analyze(ctx context.Context, src domain.SourceImage) <-chan struct{} {
	ctx = context.WithoutCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)

		description, err := e.analyzer.Analyze(ctx, src.Data, src.MIMEType)
		if err != nil {
			e.logger.Warn().Err(err).Str("source_id", src.ID).Msg("orchestrator: analysis failed")
			e.store.SetAdvisoryIf(src.ID, AnalysisAdvisory)
			return
		}
		description = strings.TrimSpace(description)
		if applied := e.store.SetDescriptionIf(src.ID, description); !applied {
			e.logger.Debug().Str("source_id", src.ID).Msg("orchestrator: discarded stale analysis response")
			return
		}
		e.logger.Info().Str("source_id", src.ID).Str("description", description).Msg("orchestrator: product analyzed")
	}()
	return done
}
