package prompt

import (
	"context"
	"strings"
	"testing"

	"photostudio/internal/providers/genai"
)

func TestStaticSuggestionsWithoutDescription(t *testing.T) {
	s := NewStaticSuggester()
	got, err := s.Suggestions(context.Background(), "")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(got) != MaxSuggestions {
		t.Fatalf("len = %d, want %d", len(got), MaxSuggestions)
	}
	if got[0] != "Make the lighting more dramatic." {
		t.Fatalf("got[0] = %q", got[0])
	}
}

func TestStaticSuggestionsPersonalizeFirstEntry(t *testing.T) {
	s := NewStaticSuggester()
	got, err := s.Suggestions(context.Background(), "a red ceramic mug")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(got) != MaxSuggestions {
		t.Fatalf("len = %d, want %d", len(got), MaxSuggestions)
	}
	if got[0] != "Place the Red Ceramic Mug on a marble pedestal." {
		t.Fatalf("got[0] = %q", got[0])
	}
}

func TestNormalizeSuggestionsDropsBlanksAndCaps(t *testing.T) {
	in := []string{" one ", "", "two", "   ", "three", "four", "five", "six"}
	got := normalizeSuggestions(in)
	want := []string{"one", "two", "three", "four", "five"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGeminiSuggesterFallsBackWhenModelUnavailable(t *testing.T) {
	client, err := genai.NewClient(genai.Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	s := NewGeminiSuggester(GeminiSuggesterOptions{Client: client})

	got, err := s.Suggestions(context.Background(), "a red ceramic mug")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("fallback produced no suggestions")
	}
	if !strings.Contains(got[0], "Red Ceramic Mug") {
		t.Fatalf("got[0] = %q, want personalized fallback", got[0])
	}
}

func TestBuildSuggestionPromptMentionsProduct(t *testing.T) {
	p := buildSuggestionPrompt("a red ceramic mug")
	if !strings.Contains(p, `"a red ceramic mug"`) {
		t.Fatalf("prompt %q does not quote the product", p)
	}
	if !strings.Contains(buildSuggestionPrompt(""), "marketing photo") {
		t.Fatal("generic prompt missing")
	}
}
