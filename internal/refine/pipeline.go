package refine

import (
	"context"
	"fmt"
	"strings"

	"photostudio/internal/infra"
)

// VariantCount is the number of prompts every refinement yields; one per
// placeholder in a generation batch.
const VariantCount = 4

// TextGenerator is the external text-generation collaborator the pipeline
// consumes. GenerateStrings requests a structured array-of-strings response.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateStrings(ctx context.Context, prompt string) ([]string, error)
}

// Pipeline rewrites a style's base prompt template into exactly four diverse
// generation prompts, in two stages: contextualize the template with the
// product description, then expand it into distinct variants. Every internal
// failure is absorbed and logged; Refine never fails and always returns
// VariantCount non-empty prompts, degrading to repetition of its input.
type Pipeline struct {
	text   TextGenerator
	logger infra.Logger
}

func NewPipeline(text TextGenerator, logger infra.Logger) *Pipeline {
	return &Pipeline{text: text, logger: logger}
}

// Refine produces the batch's prompts. productDescription may be empty, in
// which case the contextualization stage is skipped.
func (p *Pipeline) Refine(ctx context.Context, styleTemplate, productDescription string) []string {
	base := p.contextualize(ctx, styleTemplate, productDescription)
	return p.diversify(ctx, base)
}

func (p *Pipeline) contextualize(ctx context.Context, styleTemplate, productDescription string) string {
	if strings.TrimSpace(productDescription) == "" {
		return styleTemplate
	}
	rewritten, err := p.text.GenerateText(ctx, buildContextualizePrompt(styleTemplate, productDescription))
	if err != nil {
		p.logger.Warn().Err(err).Msg("refine: contextualization failed, falling back to style template")
		return styleTemplate
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return styleTemplate
	}
	return rewritten
}

func (p *Pipeline) diversify(ctx context.Context, base string) []string {
	variants, err := p.text.GenerateStrings(ctx, buildDiversifyPrompt(base))
	if err != nil {
		p.logger.Warn().Err(err).Msg("refine: diversification failed, repeating base prompt")
		return repeat(base, VariantCount)
	}

	var usable []string
	for _, v := range variants {
		if v = strings.TrimSpace(v); v != "" {
			usable = append(usable, v)
		}
	}
	if len(usable) == 0 {
		p.logger.Warn().Msg("refine: diversification returned no usable prompts, repeating base prompt")
		return repeat(base, VariantCount)
	}

	// Cyclically pad short responses; index modulo length also truncates
	// over-long ones to the first VariantCount entries.
	out := make([]string, VariantCount)
	for i := 0; i < VariantCount; i++ {
		out[i] = usable[i%len(usable)]
	}
	return out
}

func repeat(prompt string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prompt
	}
	return out
}

func buildContextualizePrompt(styleTemplate, productDescription string) string {
	return fmt.Sprintf(`You are a creative director for a marketing agency. Your task is to enhance a generic photography prompt to make it specific and compelling for a particular product.

Generic Prompt: %q
Product Description: %q

Based on the product, rewrite the generic prompt to create a specific, branded, and engaging scene. For example, if the product is 'hot sauce', a lifestyle prompt could be about drizzling it on chicken wings at a barbecue. Be creative and detailed. Output only the new, rewritten prompt.`, styleTemplate, productDescription)
}

func buildDiversifyPrompt(base string) string {
	return fmt.Sprintf(`Based on the following creative direction, generate exactly %d distinct and varied photography prompts. Each should explore a different angle, lighting, or composition to provide a range of creative options.

Creative Direction: %q

Return the %d prompts as a JSON array of strings.`, VariantCount, base, VariantCount)
}
