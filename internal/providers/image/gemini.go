package image

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"photostudio/internal/domain"
	"photostudio/internal/providers/genai"
)

// Payload carries image bytes together with their MIME type.
type Payload struct {
	Data     []byte
	MIMEType string
}

// Generator turns a source image and a single textual prompt into one output
// image. Failures wrap domain.ErrGeneration and are isolated per call; one
// failed generation never affects its sibling calls.
type Generator interface {
	Generate(ctx context.Context, src Payload, prompt string) (Payload, error)
}

// All marketing shots are produced square for consistent thumbnail layout.
const squareDirective = ". Ensure the final output image is a square with a 1:1 aspect ratio."

// Options configures the Gemini-backed generator.
type Options struct {
	Client            *genai.Client
	RequestsPerSecond float64
	Burst             int
}

// GeminiGenerator calls the Gemini image model, throttled by a client-side
// rate limiter sized for the 4-way batch fan-out.
type GeminiGenerator struct {
	client  *genai.Client
	limiter *rate.Limiter
}

func NewGeminiGenerator(opts Options) *GeminiGenerator {
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 4
	}
	return &GeminiGenerator{
		client:  opts.Client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, src Payload, prompt string) (Payload, error) {
	if len(src.Data) == 0 {
		return Payload{}, fmt.Errorf("%w: source image is missing", domain.ErrGeneration)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	out, err := g.client.GenerateImage(ctx, src.Data, src.MIMEType, prompt+squareDirective)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return Payload{Data: out.Data, MIMEType: out.MIMEType}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
