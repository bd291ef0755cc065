package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"photostudio/internal/providers/genai"
)

// Suggester fetches short free-text edit instructions the user can apply to
// the active result. Suggestions are a convenience only; callers treat any
// failure as an empty list and never block manual input on it.
type Suggester interface {
	Suggestions(ctx context.Context, productDescription string) ([]string, error)
}

// MaxSuggestions caps how many suggestions are surfaced to the user.
const MaxSuggestions = 5

type suggestionPayload struct {
	Suggestions []string `json:"suggestions"`
}

func suggestionsSchema() *genai.Schema {
	return &genai.Schema{
		Type: "OBJECT",
		Properties: map[string]*genai.Schema{
			"suggestions": genai.StringArraySchema("A short free-text edit instruction."),
		},
	}
}

// GeminiSuggester asks Gemini for product-aware edit ideas and degrades to a
// chained fallback on any failure.
type GeminiSuggester struct {
	client   *genai.Client
	fallback Suggester
}

// GeminiSuggesterOptions configures the suggester; a nil Fallback defaults to
// the static list.
type GeminiSuggesterOptions struct {
	Client   *genai.Client
	Fallback Suggester
}

func NewGeminiSuggester(opts GeminiSuggesterOptions) *GeminiSuggester {
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewStaticSuggester()
	}
	return &GeminiSuggester{client: opts.Client, fallback: fallback}
}

func (g *GeminiSuggester) Suggestions(ctx context.Context, productDescription string) ([]string, error) {
	var parsed suggestionPayload
	if err := g.client.GenerateJSON(ctx, buildSuggestionPrompt(productDescription), suggestionsSchema(), &parsed); err != nil {
		return g.fallback.Suggestions(ctx, productDescription)
	}
	out := normalizeSuggestions(parsed.Suggestions)
	if len(out) == 0 {
		return g.fallback.Suggestions(ctx, productDescription)
	}
	return out, nil
}

func buildSuggestionPrompt(productDescription string) string {
	sb := &strings.Builder{}
	sb.WriteString("You are a creative director for a marketing agency. Propose up to ")
	fmt.Fprintf(sb, "%d short, concrete edit instructions a user could apply to a generated marketing photo", MaxSuggestions)
	if productDescription != "" {
		fmt.Fprintf(sb, " of %q", productDescription)
	}
	sb.WriteString(`. Each instruction should change lighting, background, mood, or composition, e.g. "Make the lighting more dramatic". Respond strictly with JSON: {"suggestions": [string]}.`)
	return sb.String()
}

// StaticSuggester serves the fixed instruction list shown while no
// product-aware suggestions are available.
type StaticSuggester struct{}

func NewStaticSuggester() *StaticSuggester {
	return &StaticSuggester{}
}

var staticSuggestions = []string{
	"Make the lighting more dramatic.",
	"Change the background to a lush forest.",
	"Add a reflection on a glossy black floor.",
	"Give it a vintage, 1970s film-like quality.",
	"Surround it with smoke and neon lights.",
	"Change the background to a minimalist concrete wall.",
}

func (s *StaticSuggester) Suggestions(ctx context.Context, productDescription string) ([]string, error) {
	out := append([]string(nil), staticSuggestions...)
	if desc := strings.TrimSpace(productDescription); desc != "" {
		headline := cases.Title(language.English).String(stripArticle(desc))
		out = append([]string{fmt.Sprintf("Place the %s on a marble pedestal.", headline)}, out...)
	}
	return normalizeSuggestions(out), nil
}

func stripArticle(s string) string {
	lower := strings.ToLower(s)
	for _, article := range []string{"a ", "an ", "the "} {
		if strings.HasPrefix(lower, article) {
			return s[len(article):]
		}
	}
	return s
}

func normalizeSuggestions(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

var (
	_ Suggester = (*GeminiSuggester)(nil)
	_ Suggester = (*StaticSuggester)(nil)
)
