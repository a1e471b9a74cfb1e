package svc

import (
	"context"
	"os"
	"time"

	"github.com/wayfinder-ai/wayfinder/internal/config"
	"github.com/wayfinder-ai/wayfinder/internal/navigation"
	"github.com/wayfinder-ai/wayfinder/internal/perception"
	"github.com/wayfinder-ai/wayfinder/internal/quota"
	"github.com/wayfinder-ai/wayfinder/internal/speech"
	"github.com/wayfinder-ai/wayfinder/internal/store"
	"github.com/wayfinder-ai/wayfinder/pkg/provider"

	"github.com/zeromicro/go-zero/core/logx"
)

// LLMProviderName is the registry key the pipeline resolves for generation.
const LLMProviderName = "deepseek"

const (
	defaultInferenceURL = "http://127.0.0.1:8090"
	defaultKaniURL      = "http://127.0.0.1:8100"
	defaultStoragePath  = "data/wayfinder.db"
)

type ServiceContext struct {
	Config     config.Config
	Registry   *provider.Registry
	Store      store.Store
	Quota      *quota.Guard
	Perception *perception.Runner
	Speech     *speech.Facade
	Extractor  *navigation.Extractor
}

func NewServiceContext(c config.Config) *ServiceContext {
	registry := provider.NewRegistry()

	// LLM: config first, env fallback. Without a key the generation stage is
	// unavailable and /api/analyze answers 503.
	apiKey := c.Providers.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	var llm provider.LLMProvider
	if apiKey != "" {
		llm = provider.NewOpenAILLMProvider(apiKey)
		registry.RegisterLLM(LLMProviderName, llm)
	} else {
		logx.Errorf("no LLM API key configured (providers.llm.apiKey / OPENAI_API_KEY)")
	}

	// Perception sidecar clients.
	inferenceURL := c.Providers.Inference.BaseURL
	if inferenceURL == "" {
		inferenceURL = defaultInferenceURL
	}
	stt := provider.NewWhisperSTTProvider(inferenceURL)
	detector := provider.NewYOLODetectorProvider(inferenceURL)
	caption := provider.NewBLIPCaptionProvider(inferenceURL)
	ocr := provider.NewEasyOCRProvider(inferenceURL)
	registry.RegisterSTT(stt.Name(), stt)
	registry.RegisterDetector(detector.Name(), detector)
	registry.RegisterCaption(caption.Name(), caption)
	registry.RegisterOCR(ocr.Name(), ocr)

	// Speech synthesis: KaniTTS primary (lazy single load), Edge fallback.
	kaniURL := c.Providers.Kani.BaseURL
	if kaniURL == "" {
		kaniURL = defaultKaniURL
	}
	edge := provider.NewEdgeTTSProvider(c.Providers.Edge.Voice)
	registry.RegisterTTS(edge.Name(), edge)
	facade := speech.NewFacade(func(ctx context.Context) (provider.TTSProvider, error) {
		kani := provider.NewKaniTTSProvider(kaniURL)
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := kani.Ping(pingCtx); err != nil {
			return nil, err
		}
		return kani, nil
	}, edge, nil)

	storagePath := c.Storage.Path
	if storagePath == "" {
		storagePath = defaultStoragePath
	}
	st, err := store.NewSQLiteStore(storagePath)
	if err != nil {
		logx.Must(err)
	}

	return &ServiceContext{
		Config:     c,
		Registry:   registry,
		Store:      st,
		Quota:      quota.NewGuard(st),
		Perception: perception.NewRunner(stt, detector, caption, ocr, c.Perception.MaxConcurrency),
		Speech:     facade,
		Extractor:  navigation.NewExtractor(llm),
	}
}

func (s *ServiceContext) Close() {
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			logx.Errorf("failed to close store: %v", err)
		}
	}
}
