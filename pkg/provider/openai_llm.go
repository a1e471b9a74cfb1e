package provider

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	deepseekBaseURL   = "https://api.deepseek.com"
	deepseekModel     = "deepseek-chat"
	openrouterBaseURL = "https://openrouter.ai/api/v1"
	openrouterModel   = "deepseek/deepseek-chat"
)

// OpenAILLMProvider talks to any OpenAI-compatible chat-completions endpoint.
// Keys issued by OpenRouter (prefix "sk-or-v1") are routed there, everything
// else goes to DeepSeek directly.
type OpenAILLMProvider struct {
	client       *openai.Client
	defaultModel string
}

func NewOpenAILLMProvider(apiKey string) *OpenAILLMProvider {
	baseURL := deepseekBaseURL
	model := deepseekModel
	if strings.HasPrefix(apiKey, "sk-or-v1") {
		baseURL = openrouterBaseURL
		model = openrouterModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &OpenAILLMProvider{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: model,
	}
}

func (p *OpenAILLMProvider) Name() string {
	return "openai-compatible"
}

func (p *OpenAILLMProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &ChatResponse{
		Text:         resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
