// Package navigation extracts a destination address from free-form text,
// preferring the language model and falling back to local pattern matching.
package navigation

import (
	"context"
	"regexp"
	"strings"

	"github.com/wayfinder-ai/wayfinder/pkg/provider"

	"github.com/zeromicro/go-zero/core/logx"
)

const notFoundSentinel = "NOT_FOUND"

const extractorSystemPrompt = "Ты помощник для извлечения адресов. Извлеки адрес назначения из запроса пользователя. " +
	"Верни ТОЛЬКО адрес, без дополнительного текста. Если адрес не найден, верни 'NOT_FOUND'."

// Ordered address patterns, first match wins. Trailing house-number tokens
// are not captured.
var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`до\s+(.+?)(?:\s+дом\s+\d+|\s+\d+)?$`),
	regexp.MustCompile(`на\s+(.+?)(?:\s+дом\s+\d+|\s+\d+)?$`),
	regexp.MustCompile(`улиц[аы]\s+(.+?)(?:\s+дом\s+\d+|\s+\d+)?$`),
}

type Extractor struct {
	llm provider.LLMProvider // nil when no generation credentials configured
}

func NewExtractor(llm provider.LLMProvider) *Extractor {
	return &Extractor{llm: llm}
}

// ExtractDestination returns the destination address, or "" when neither the
// model nor the local patterns can find one. A model failure is downgraded
// to the pattern path, never surfaced.
func (e *Extractor) ExtractDestination(ctx context.Context, text string) string {
	if e.llm == nil {
		return extractByPattern(text)
	}

	resp, err := e.llm.Chat(ctx, &provider.ChatRequest{
		Messages: []*provider.Message{
			{Role: "system", Content: extractorSystemPrompt},
			{Role: "user", Content: "Запрос: " + text},
		},
		MaxTokens: 100,
	})
	if err != nil {
		logx.Errorf("AI address extraction failed, using pattern fallback: %v", err)
		return extractByPattern(text)
	}

	result := strings.TrimSpace(resp.Text)
	if result == "" || result == notFoundSentinel {
		return ""
	}
	return result
}

func extractByPattern(text string) string {
	lower := strings.ToLower(text)
	for _, pattern := range addressPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
