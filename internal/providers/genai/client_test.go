package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"photostudio/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: fn},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func textBody(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			},
		}},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestGenerateTextSendsKeyAndModel(t *testing.T) {
	var captured *http.Request
	var body []byte
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		body, _ = io.ReadAll(req.Body)
		return jsonResponse(http.StatusOK, textBody("  a cozy scene  ")), nil
	})

	got, err := client.GenerateText(context.Background(), "describe the scene")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "a cozy scene" {
		t.Fatalf("text = %q, want trimmed candidate", got)
	}
	if captured.Header.Get("x-goog-api-key") != "test-key" {
		t.Fatal("api key header missing")
	}
	if !strings.Contains(captured.URL.Path, "gemini-2.5-flash:generateContent") {
		t.Fatalf("path = %s, want default text model endpoint", captured.URL.Path)
	}
	if !bytes.Contains(body, []byte("describe the scene")) {
		t.Fatal("prompt not in request body")
	}
}

func TestGenerateTextSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded"}}`), nil
	})

	_, err := client.GenerateText(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want api error message surfaced", err)
	}
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates":[]}`), nil
	})

	if _, err := client.GenerateText(context.Background(), "prompt"); err == nil {
		t.Fatal("want error for empty candidate list")
	}
}

func TestGenerateStringsToleratesCodeFences(t *testing.T) {
	fenced := "```json\n[\"first\", \"second\", \"\", \"  third  \"]\n```"
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, textBody(fenced)), nil
	})

	got, err := client.GenerateStrings(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateStrings: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateStringsToleratesSurroundingProse(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, textBody(`Here you go: ["one","two"] hope that helps`)), nil
	})

	got, err := client.GenerateStrings(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateStrings: %v", err)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("got %v, want [one two]", got)
	}
}

func TestGenerateJSONRequestsStructuredOutput(t *testing.T) {
	var body []byte
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		body, _ = io.ReadAll(req.Body)
		return jsonResponse(http.StatusOK, textBody(`{"suggestions":["a"]}`)), nil
	})

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	schema := &Schema{
		Type:       "OBJECT",
		Properties: map[string]*Schema{"suggestions": StringArraySchema("idea")},
	}
	if err := client.GenerateJSON(context.Background(), "prompt", schema, &out); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if len(out.Suggestions) != 1 || out.Suggestions[0] != "a" {
		t.Fatalf("out = %+v", out)
	}
	if !bytes.Contains(body, []byte(`"responseMimeType":"application/json"`)) {
		t.Fatal("responseMimeType not requested")
	}
	if !bytes.Contains(body, []byte(`"responseSchema"`)) {
		t.Fatal("responseSchema not sent")
	}
}

func TestGenerateJSONWrapsMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, textBody(`{"suggestions": [truncated`)), nil
	})

	var out map[string]any
	err := client.GenerateJSON(context.Background(), "prompt", StringArraySchema("x"), &out)
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestGenerateImageExtractsInlinePart(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G'}
	var body []byte
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		body, _ = io.ReadAll(req.Body)
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "here is the image"},
						{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(img),
						}},
					},
				},
			}},
		}
		raw, _ := json.Marshal(resp)
		return jsonResponse(http.StatusOK, string(raw)), nil
	})

	got, err := client.GenerateImage(context.Background(), []byte("source"), "image/jpeg", "make it pop")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if !bytes.Equal(got.Data, img) || got.MIMEType != "image/png" {
		t.Fatalf("payload = %+v", got)
	}
	if !bytes.Contains(body, []byte(`"responseModalities":["IMAGE","TEXT"]`)) {
		t.Fatal("image modality not requested")
	}
}

func TestGenerateImageNoImagePart(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, textBody("sorry, text only")), nil
	})

	if _, err := client.GenerateImage(context.Background(), []byte("source"), "image/jpeg", "prompt"); err == nil {
		t.Fatal("want error when response has no inline image")
	}
}

func TestSyntheticModeServesDeterministicAssets(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if !client.Synthetic() {
		t.Fatal("client without api key should be synthetic")
	}

	first, err := client.GenerateImage(context.Background(), nil, "", "studio shot")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	second, err := client.GenerateImage(context.Background(), nil, "", "studio shot")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if first.MIMEType != "image/png" || len(first.Data) == 0 {
		t.Fatalf("payload = mime %s, %d bytes", first.MIMEType, len(first.Data))
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatal("same prompt should yield identical synthetic asset")
	}
	other, err := client.GenerateImage(context.Background(), nil, "", "lifestyle shot")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if bytes.Equal(first.Data, other.Data) {
		t.Fatal("different prompts should yield different synthetic assets")
	}

	if _, err := client.GenerateText(context.Background(), "prompt"); err == nil {
		t.Fatal("text generation should fail without api key")
	}
}
