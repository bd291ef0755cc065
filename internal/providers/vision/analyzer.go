package vision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"photostudio/internal/domain"
	"photostudio/internal/infra"
	"photostudio/internal/providers/genai"
)

// Analyzer produces a natural-language product description for an uploaded
// photo. Implementations fail with domain.ErrAnalysis on empty or malformed
// responses.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte, mimeType string) (string, error)
}

const analyzeInstruction = `Analyze the image and provide a concise, descriptive name for the product shown. Focus on what the item is, its color, and any distinct patterns. For example: "a bottle of red hot sauce with a green cap" or "a blue patterned phone case". Output only the product name.`

const (
	cacheTTL     = 30 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// GeminiAnalyzer asks Gemini to describe the product. Results are cached by
// image content hash, so switching back and forth between uploaded photos
// does not re-bill the same analysis.
type GeminiAnalyzer struct {
	client *genai.Client
	cache  *gocache.Cache
	logger infra.Logger
}

func NewGeminiAnalyzer(client *genai.Client, logger infra.Logger) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		client: client,
		cache:  gocache.New(cacheTTL, cacheCleanup),
		logger: logger,
	}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: source image is empty", domain.ErrAnalysis)
	}

	key := contentKey(data)
	if cached, ok := a.cache.Get(key); ok {
		if description, ok := cached.(string); ok {
			a.logger.Debug().Str("content_key", key).Msg("vision: analysis cache hit")
			return description, nil
		}
	}

	description, err := a.client.DescribeImage(ctx, data, mimeType, analyzeInstruction)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAnalysis, err)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("%w: could not identify the product in the image", domain.ErrAnalysis)
	}

	a.cache.Set(key, description, gocache.DefaultExpiration)
	return description, nil
}

func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ Analyzer = (*GeminiAnalyzer)(nil)
