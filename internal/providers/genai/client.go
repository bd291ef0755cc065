package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"photostudio/internal/domain"
	"photostudio/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the Gemini generateContent API. It exposes the
// four collaborator calls the orchestration engine consumes: plain text
// generation, structured (JSON-schema) generation, image description, and
// image generation/editing. When no API key is configured the image path
// degrades to deterministic synthetic assets so the whole pipeline stays
// operational in local and CI environments.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	httpClient *http.Client
	logger     *infra.Logger
}

// ImagePayload is the normalized image representation returned by the client.
type ImagePayload struct {
	Data     []byte
	MIMEType string
}

// Schema is the subset of the Gemini response schema language the engine
// needs: string arrays and flat objects of string arrays.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
}

// StringArraySchema describes a JSON array-of-strings response.
func StringArraySchema(itemDescription string) *Schema {
	return &Schema{
		Type:  "ARRAY",
		Items: &Schema{Type: "STRING", Description: itemDescription},
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature        float64  `json:"temperature,omitempty"`
	CandidateCount     int      `json:"candidateCount,omitempty"`
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema  `json:"responseSchema,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with sensible timeouts is
// created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image-preview"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		textModel:  textModel,
		imageModel: imageModel,
		httpClient: client,
		logger:     logger,
	}, nil
}

// TextModel returns the configured text model identifier.
func (c *Client) TextModel() string { return c.textModel }

// ImageModel returns the configured image model identifier.
func (c *Client) ImageModel() string { return c.imageModel }

// Synthetic reports whether the client runs without an API key and serves
// deterministic placeholder assets instead of calling Gemini.
func (c *Client) Synthetic() bool { return c.apiKey == "" }

var errEmptyResponse = errors.New("empty response")

// GenerateText sends a single-turn text prompt and returns the first
// non-empty candidate text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("genai: no api key configured: %w", errEmptyResponse)
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{CandidateCount: 1},
	}
	var out geminiGenerateContentResponse
	if err := c.invoke(ctx, c.textModel, payload, &out); err != nil {
		return "", err
	}
	text := strings.TrimSpace(extractText(out))
	if text == "" {
		return "", fmt.Errorf("genai: text generation: %w", errEmptyResponse)
	}
	return text, nil
}

// GenerateJSON sends a text prompt with a structured response schema and
// decodes the candidate text into out. Model output wrapped in markdown code
// fences or surrounded by prose is tolerated.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *Schema, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("genai: no api key configured: %w", errEmptyResponse)
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			CandidateCount:   1,
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	var resp geminiGenerateContentResponse
	if err := c.invoke(ctx, c.textModel, payload, &resp); err != nil {
		return err
	}
	fragment := extractJSONFragment(extractText(resp))
	if fragment == "" {
		return fmt.Errorf("genai: structured generation: %w", errEmptyResponse)
	}
	if err := json.Unmarshal([]byte(fragment), out); err != nil {
		return fmt.Errorf("%w: decode structured payload: %v", domain.ErrParse, err)
	}
	return nil
}

// GenerateStrings is a convenience wrapper over GenerateJSON for the common
// array-of-strings response shape. Blank entries are dropped.
func (c *Client) GenerateStrings(ctx context.Context, prompt string) ([]string, error) {
	var raw []string
	if err := c.GenerateJSON(ctx, prompt, StringArraySchema("A unique photography prompt variation."), &raw); err != nil {
		return nil, err
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("genai: structured generation: %w", errEmptyResponse)
	}
	return out, nil
}

// DescribeImage sends an image together with a text instruction and returns
// the model's textual answer.
func (c *Client) DescribeImage(ctx context.Context, data []byte, mimeType, instruction string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("genai: no api key configured: %w", errEmptyResponse)
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
				{Text: instruction},
			},
		}},
	}
	var out geminiGenerateContentResponse
	if err := c.invoke(ctx, c.textModel, payload, &out); err != nil {
		return "", err
	}
	text := strings.TrimSpace(extractText(out))
	if text == "" {
		return "", fmt.Errorf("genai: image description: %w", errEmptyResponse)
	}
	return text, nil
}

// GenerateImage sends a source image plus an edit/generation prompt and
// returns the first image part of the response. Without an API key a
// deterministic synthetic asset is returned instead.
func (c *Client) GenerateImage(ctx context.Context, data []byte, mimeType, prompt string) (ImagePayload, error) {
	if err := ctx.Err(); err != nil {
		return ImagePayload{}, err
	}
	if c.apiKey == "" {
		asset := c.syntheticImage(prompt)
		c.logger.Debug().
			Str("model", c.imageModel).
			Msg("genai: generated synthetic image asset")
		return asset, nil
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}
	var out geminiGenerateContentResponse
	if err := c.invoke(ctx, c.imageModel, payload, &out); err != nil {
		return ImagePayload{}, err
	}
	for _, candidate := range out.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			decoded, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return ImagePayload{}, fmt.Errorf("genai: decode inline data: %w", err)
			}
			format := part.InlineData.MimeType
			if format == "" {
				format = "image/png"
			}
			return ImagePayload{Data: decoded, MIMEType: format}, nil
		}
	}
	return ImagePayload{}, fmt.Errorf("genai: no image part in response: %w", errEmptyResponse)
}

func (c *Client) invoke(ctx context.Context, model string, payload any, out any) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func extractText(resp geminiGenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
