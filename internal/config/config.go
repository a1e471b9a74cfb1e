package config

import "github.com/zeromicro/go-zero/rest"

type Config struct {
	rest.RestConf

	// Provider endpoints and credentials
	Providers ProviderConfig `json:"providers,omitempty"`

	// Storage settings
	Storage StorageConfig `json:"storage,omitempty"`

	// Perception tuning
	Perception PerceptionConfig `json:"perception,omitempty"`
}

type ProviderConfig struct {
	// LLM (OpenAI-compatible: DeepSeek or OpenRouter by key prefix)
	LLM LLMConfig `json:"llm,omitempty"`

	// Local inference sidecar (Whisper/YOLO/BLIP/EasyOCR)
	Inference InferenceConfig `json:"inference,omitempty"`

	// Speech synthesis engines
	Kani KaniConfig `json:"kani,omitempty"`
	Edge EdgeConfig `json:"edge,omitempty"`
}

type LLMConfig struct {
	APIKey string `json:"apiKey,omitempty"`
	Model  string `json:"model,omitempty"`
}

type InferenceConfig struct {
	BaseURL string `json:"baseUrl,omitempty"`
}

type KaniConfig struct {
	BaseURL string `json:"baseUrl,omitempty"`
}

type EdgeConfig struct {
	Voice string `json:"voice,omitempty"`
}

type StorageConfig struct {
	Path string `json:"path,omitempty"` // sqlite database file
}

type PerceptionConfig struct {
	MaxConcurrency int `json:"maxConcurrency,omitempty"` // worker cap for inference fan-out
}
