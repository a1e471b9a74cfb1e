package navigation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfinder-ai/wayfinder/pkg/provider"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Name() string { return "fake-llm" }
func (f *fakeLLM) Chat(context.Context, *provider.ChatRequest) (*provider.ChatResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &provider.ChatResponse{Text: f.reply}, nil
}

func TestExtractDestinationFromModel(t *testing.T) {
	e := NewExtractor(&fakeLLM{reply: "  улица Ленина 5  "})
	assert.Equal(t, "улица Ленина 5", e.ExtractDestination(context.Background(), "отведи меня до Ленина 5"))
}

func TestExtractDestinationModelNotFound(t *testing.T) {
	e := NewExtractor(&fakeLLM{reply: "NOT_FOUND"})
	assert.Empty(t, e.ExtractDestination(context.Background(), "как дела"))
}

func TestExtractDestinationModelFailureFallsBack(t *testing.T) {
	e := NewExtractor(&fakeLLM{err: errors.New("timeout")})
	assert.Equal(t, "аптеки", e.ExtractDestination(context.Background(), "построй маршрут до аптеки"))
}

func TestExtractDestinationWithoutModel(t *testing.T) {
	e := NewExtractor(nil)

	assert.Equal(t, "вокзала", e.ExtractDestination(context.Background(), "Маршрут до вокзала"))
	assert.Equal(t, "площадь", e.ExtractDestination(context.Background(), "иди на площадь"))
	assert.Empty(t, e.ExtractDestination(context.Background(), "какая погода"))
}

func TestExtractByPatternDropsHouseNumber(t *testing.T) {
	assert.Equal(t, "тверской", extractByPattern("до тверской дом 12"))
}
