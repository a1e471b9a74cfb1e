package navigate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder/internal/navigation"
	"github.com/wayfinder-ai/wayfinder/internal/speech"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"
	"github.com/wayfinder-ai/wayfinder/pkg/provider"
)

type fakeSTT struct {
	text string
}

func (f *fakeSTT) Name() string { return "whisper" }
func (f *fakeSTT) Transcribe(context.Context, []byte) (string, error) {
	return f.text, nil
}

type fakeTTS struct{}

func (f *fakeTTS) Name() string { return "fake-tts" }
func (f *fakeTTS) Synthesize(context.Context, string, *provider.TTSOptions) ([]byte, error) {
	return []byte("mp3"), nil
}

func newSvcCtx(stt *fakeSTT) *svc.ServiceContext {
	registry := provider.NewRegistry()
	if stt != nil {
		registry.RegisterSTT("whisper", stt)
	}
	facade := speech.NewFacade(func(context.Context) (provider.TTSProvider, error) {
		return &fakeTTS{}, nil
	}, nil, nil)
	return &svc.ServiceContext{
		Registry:  registry,
		Speech:    facade,
		Extractor: navigation.NewExtractor(nil),
	}
}

func TestNavigateBuildsRoute(t *testing.T) {
	l := NewNavigateLogic(context.Background(), newSvcCtx(nil))

	resp, err := l.Navigate(&types.NavigateRequest{Text: "как дойти до вокзала"})
	require.NoError(t, err)

	require.NotNil(t, resp.Destination)
	assert.Equal(t, "вокзала", *resp.Destination)
	assert.Equal(t, "build_route", resp.Action)
	assert.Contains(t, resp.Message, "Строю маршрут до вокзала")
	assert.NotNil(t, resp.Audio)
}

func TestNavigateFromAudio(t *testing.T) {
	l := NewNavigateLogic(context.Background(), newSvcCtx(&fakeSTT{text: "маршрут до аптеки"}))

	resp, err := l.Navigate(&types.NavigateRequest{Audio: []byte("voice")})
	require.NoError(t, err)

	require.NotNil(t, resp.Destination)
	assert.Equal(t, "аптеки", *resp.Destination)
}

func TestNavigateClarificationWhenNoAddress(t *testing.T) {
	l := NewNavigateLogic(context.Background(), newSvcCtx(nil))

	resp, err := l.Navigate(&types.NavigateRequest{Text: "какая сегодня погода"})
	require.NoError(t, err)

	assert.Nil(t, resp.Destination)
	assert.Empty(t, resp.Action)
	assert.Contains(t, resp.Message, "не смог определить адрес")
}

func TestNavigateNoInput(t *testing.T) {
	l := NewNavigateLogic(context.Background(), newSvcCtx(nil))

	_, err := l.Navigate(&types.NavigateRequest{Text: "   "})
	assert.ErrorIs(t, err, ErrNoInput)
}
