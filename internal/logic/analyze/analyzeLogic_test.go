package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder/internal/perception"
	"github.com/wayfinder-ai/wayfinder/internal/quota"
	"github.com/wayfinder-ai/wayfinder/internal/speech"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"
	"github.com/wayfinder-ai/wayfinder/pkg/model"
	"github.com/wayfinder-ai/wayfinder/pkg/provider"
)

type memStore struct {
	users    map[string]*model.User
	sessions map[string]*model.Session
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		sessions: make(map[string]*model.Session),
	}
}

func (m *memStore) GetOrCreateUser(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	u := &model.User{ID: id, SubscriptionType: model.TierFree}
	m.users[id] = u
	return u, nil
}

func (m *memStore) SaveUser(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetOrCreateSession(_ context.Context, key string) (*model.Session, error) {
	if s, ok := m.sessions[key]; ok {
		return s, nil
	}
	s := &model.Session{Key: key, Facts: []byte("{}")}
	m.sessions[key] = s
	return s, nil
}

func (m *memStore) SaveSession(_ context.Context, session *model.Session) error {
	m.sessions[session.Key] = session
	return nil
}

func (m *memStore) Close() error { return nil }

type fakeLLM struct {
	reply string
	err   error
	last  *provider.ChatRequest
}

func (f *fakeLLM) Name() string { return "fake-llm" }
func (f *fakeLLM) Chat(_ context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &provider.ChatResponse{Text: f.reply}, nil
}

type fakeDetector struct {
	objects []string
}

func (f *fakeDetector) Name() string { return "fake-detector" }
func (f *fakeDetector) Detect(context.Context, []byte) ([]string, error) {
	return f.objects, nil
}

type fakeCaption struct {
	caption string
}

func (f *fakeCaption) Name() string { return "fake-caption" }
func (f *fakeCaption) Describe(context.Context, []byte) (string, error) {
	return f.caption, nil
}

type fakeTTS struct {
	audio []byte
}

func (f *fakeTTS) Name() string { return "fake-tts" }
func (f *fakeTTS) Synthesize(context.Context, string, *provider.TTSOptions) ([]byte, error) {
	return f.audio, nil
}

type env struct {
	store  *memStore
	llm    *fakeLLM
	svcCtx *svc.ServiceContext
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := newMemStore()
	llm := &fakeLLM{reply: "Здравствуйте!"}

	registry := provider.NewRegistry()
	registry.RegisterLLM(svc.LLMProviderName, llm)

	tts := &fakeTTS{audio: []byte("wav-bytes")}
	facade := speech.NewFacade(func(context.Context) (provider.TTSProvider, error) {
		return tts, nil
	}, nil, nil)

	return &env{
		store: st,
		llm:   llm,
		svcCtx: &svc.ServiceContext{
			Registry:   registry,
			Store:      st,
			Quota:      quota.NewGuard(st),
			Perception: perception.NewRunner(nil, &fakeDetector{objects: []string{"person", "car"}}, &fakeCaption{caption: "улица"}, nil, 2),
			Speech:     facade,
		},
	}
}

func TestAnalyzeChatFlow(t *testing.T) {
	e := newEnv(t)
	l := NewAnalyzeLogic(context.Background(), e.svcCtx)

	resp, err := l.Analyze(&types.AnalyzeRequest{
		Text:      "привет",
		SessionID: "s1",
		UserID:    "u1",
		Mode:      perception.ModeChat,
	})
	require.NoError(t, err)

	assert.Equal(t, "Здравствуйте!", resp.Message)
	require.NotNil(t, resp.Audio, "successful synthesis yields base64 audio")

	session := e.store.sessions["s1"]
	require.Len(t, session.History, 2)
	assert.Equal(t, model.RoleUser, session.History[0].Role)
	assert.Equal(t, "привет", session.History[0].Content)
	assert.Equal(t, model.RoleAssistant, session.History[1].Role)
	assert.Equal(t, "Здравствуйте!", session.History[1].Content)

	user := e.store.users["u1"]
	assert.Equal(t, 1, user.DailyRequests)
	assert.Equal(t, 1, user.TotalRequests)
}

func TestAnalyzeNavigatorShortCircuit(t *testing.T) {
	e := newEnv(t)
	l := NewAnalyzeLogic(context.Background(), e.svcCtx)

	resp, err := l.Analyze(&types.AnalyzeRequest{
		Image:     []byte("frame"),
		SessionID: "s1",
		UserID:    "u1",
		Mode:      perception.ModeNavigator,
	})
	require.NoError(t, err)

	assert.Equal(t, "человек, автомобиль", resp.Message)
	assert.Nil(t, resp.Audio)

	_, sessionCreated := e.store.sessions["s1"]
	assert.False(t, sessionCreated, "navigator mode never touches the session")
	assert.Equal(t, 0, e.store.users["u1"].DailyRequests, "navigator mode is not billed")
}

func TestAnalyzeQuotaRejection(t *testing.T) {
	e := newEnv(t)
	today := time.Now().Format("2006-01-02")
	e.store.users["u1"] = &model.User{
		ID:               "u1",
		SubscriptionType: model.TierFree,
		DailyRequests:    10,
		LastRequestDate:  today,
		TotalRequests:    30,
	}

	l := NewAnalyzeLogic(context.Background(), e.svcCtx)
	_, err := l.Analyze(&types.AnalyzeRequest{
		Text:      "привет",
		SessionID: "s1",
		UserID:    "u1",
	})

	var limitErr *quota.LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 10, e.store.users["u1"].DailyRequests, "rejection leaves counters untouched")
	assert.Equal(t, 30, e.store.users["u1"].TotalRequests)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	e := newEnv(t)
	l := NewAnalyzeLogic(context.Background(), e.svcCtx)

	_, err := l.Analyze(&types.AnalyzeRequest{
		SessionID: "s1",
		UserID:    "u1",
	})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAnalyzeNoLLMConfigured(t *testing.T) {
	e := newEnv(t)
	e.svcCtx.Registry = provider.NewRegistry()

	l := NewAnalyzeLogic(context.Background(), e.svcCtx)
	_, err := l.Analyze(&types.AnalyzeRequest{
		Text:      "привет",
		SessionID: "s1",
		UserID:    "u1",
	})
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestAnalyzeGenerationFailureDegradesToApology(t *testing.T) {
	e := newEnv(t)
	e.llm.err = errors.New("upstream 500")

	l := NewAnalyzeLogic(context.Background(), e.svcCtx)
	resp, err := l.Analyze(&types.AnalyzeRequest{
		Text:      "привет",
		SessionID: "s1",
		UserID:    "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, apologyMessage, resp.Message)
	// the failed exchange is still recorded and billed
	assert.Len(t, e.store.sessions["s1"].History, 2)
	assert.Equal(t, 1, e.store.users["u1"].DailyRequests)
}

func TestAnalyzePersistsAffectFacts(t *testing.T) {
	e := newEnv(t)
	l := NewAnalyzeLogic(context.Background(), e.svcCtx)

	_, err := l.Analyze(&types.AnalyzeRequest{
		Text:      "я устал, меня зовут Олег",
		SessionID: "s1",
		UserID:    "u1",
	})
	require.NoError(t, err)

	var facts map[string]any
	require.NoError(t, json.Unmarshal(e.store.sessions["s1"].Facts, &facts))
	assert.Equal(t, "tired", facts["mood"])
	assert.Equal(t, "low", facts["energy"])
	assert.Equal(t, "Олег", facts["name"])
}

func TestAnalyzeVisualContextInPrompt(t *testing.T) {
	e := newEnv(t)
	l := NewAnalyzeLogic(context.Background(), e.svcCtx)

	resp, err := l.Analyze(&types.AnalyzeRequest{
		Image:     []byte("frame"),
		Text:      "что ты видишь",
		SessionID: "s1",
		UserID:    "u1",
	})
	require.NoError(t, err)

	require.NotNil(t, e.llm.last)
	require.NotEmpty(t, e.llm.last.Messages)
	assert.Contains(t, e.llm.last.Messages[0].Content, "Ты видишь: улица")
	assert.Equal(t, "улица", resp.DebugVisual)
}
