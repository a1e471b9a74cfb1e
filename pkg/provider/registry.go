package provider

import (
	"context"
	"fmt"
)

// Registry manages all providers with unified interfaces
type Registry struct {
	llmProviders      map[string]LLMProvider
	sttProviders      map[string]STTProvider
	ttsProviders      map[string]TTSProvider
	detectorProviders map[string]DetectorProvider
	captionProviders  map[string]CaptionProvider
	ocrProviders      map[string]OCRProvider
}

func NewRegistry() *Registry {
	return &Registry{
		llmProviders:      make(map[string]LLMProvider),
		sttProviders:      make(map[string]STTProvider),
		ttsProviders:      make(map[string]TTSProvider),
		detectorProviders: make(map[string]DetectorProvider),
		captionProviders:  make(map[string]CaptionProvider),
		ocrProviders:      make(map[string]OCRProvider),
	}
}

// LLM Provider Interface
type LLMProvider interface {
	Name() string
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// STT Provider Interface: raw audio bytes in, transcript out.
type STTProvider interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// TTS Provider Interface: text in, raw audio bytes out.
type TTSProvider interface {
	Name() string
	Synthesize(ctx context.Context, text string, opts *TTSOptions) ([]byte, error)
}

// Detector Provider Interface: image bytes in, object class labels out.
type DetectorProvider interface {
	Name() string
	Detect(ctx context.Context, image []byte) ([]string, error)
}

// Caption Provider Interface: image bytes in, scene description out.
type CaptionProvider interface {
	Name() string
	Describe(ctx context.Context, image []byte) (string, error)
}

// OCR Provider Interface: image bytes in, recognized text out.
type OCRProvider interface {
	Name() string
	ReadText(ctx context.Context, image []byte) (string, error)
}

// Data structures
type ChatRequest struct {
	Model       string     `json:"model"`
	Messages    []*Message `json:"messages"`
	Temperature float64    `json:"temperature,omitempty"`
	MaxTokens   int        `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"` // system|user|assistant
	Content string `json:"content"`
}

type ChatResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason"`
	Usage        *Usage `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type TTSOptions struct {
	Voice string  `json:"voice"`
	Speed float64 `json:"speed,omitempty"`
}

// Registry methods
func (r *Registry) RegisterLLM(name string, provider LLMProvider) {
	r.llmProviders[name] = provider
}

func (r *Registry) RegisterSTT(name string, provider STTProvider) {
	r.sttProviders[name] = provider
}

func (r *Registry) RegisterTTS(name string, provider TTSProvider) {
	r.ttsProviders[name] = provider
}

func (r *Registry) RegisterDetector(name string, provider DetectorProvider) {
	r.detectorProviders[name] = provider
}

func (r *Registry) RegisterCaption(name string, provider CaptionProvider) {
	r.captionProviders[name] = provider
}

func (r *Registry) RegisterOCR(name string, provider OCRProvider) {
	r.ocrProviders[name] = provider
}

func (r *Registry) GetLLM(name string) (LLMProvider, error) {
	if provider, ok := r.llmProviders[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("LLM provider '%s' not found", name)
}

func (r *Registry) GetSTT(name string) (STTProvider, error) {
	if provider, ok := r.sttProviders[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("STT provider '%s' not found", name)
}

func (r *Registry) GetTTS(name string) (TTSProvider, error) {
	if provider, ok := r.ttsProviders[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("TTS provider '%s' not found", name)
}

func (r *Registry) GetDetector(name string) (DetectorProvider, error) {
	if provider, ok := r.detectorProviders[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("detector provider '%s' not found", name)
}

func (r *Registry) GetCaption(name string) (CaptionProvider, error) {
	if provider, ok := r.captionProviders[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("caption provider '%s' not found", name)
}

func (r *Registry) GetOCR(name string) (OCRProvider, error) {
	if provider, ok := r.ocrProviders[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("OCR provider '%s' not found", name)
}

// ProviderInfo describes a registered provider for service discovery.
type ProviderInfo struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities,omitempty"`
}

var providerCapabilities = map[string][]string{
	"llm":      {"chat"},
	"stt":      {"transcribe"},
	"tts":      {"synthesize"},
	"detector": {"detect"},
	"caption":  {"describe"},
	"ocr":      {"read_text"},
}

// GetAllProviders returns info for every registered provider.
func (r *Registry) GetAllProviders() []ProviderInfo {
	var providers []ProviderInfo
	for _, t := range []string{"llm", "stt", "tts", "detector", "caption", "ocr"} {
		providers = append(providers, r.GetProvidersByType(t)...)
	}
	return providers
}

// GetProvidersByType returns info for all providers of one type.
func (r *Registry) GetProvidersByType(providerType string) []ProviderInfo {
	var names []string
	switch providerType {
	case "llm":
		for name := range r.llmProviders {
			names = append(names, name)
		}
	case "stt":
		for name := range r.sttProviders {
			names = append(names, name)
		}
	case "tts":
		for name := range r.ttsProviders {
			names = append(names, name)
		}
	case "detector":
		for name := range r.detectorProviders {
			names = append(names, name)
		}
	case "caption":
		for name := range r.captionProviders {
			names = append(names, name)
		}
	case "ocr":
		for name := range r.ocrProviders {
			names = append(names, name)
		}
	}

	var providers []ProviderInfo
	for _, name := range names {
		providers = append(providers, ProviderInfo{
			Name:         name,
			Type:         providerType,
			Status:       "online",
			Capabilities: providerCapabilities[providerType],
		})
	}
	return providers
}
