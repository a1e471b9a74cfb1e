package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/wayfinder-ai/wayfinder/internal/cag"
	"github.com/wayfinder-ai/wayfinder/internal/perception"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"
	"github.com/wayfinder-ai/wayfinder/pkg/model"
	"github.com/wayfinder-ai/wayfinder/pkg/provider"

	"github.com/zeromicro/go-zero/core/logx"
)

// ErrEmptyInput: no text and no image-derived description resolved. Mapped
// to 400 by the handler.
var ErrEmptyInput = errors.New("no usable input")

// ErrGenerationUnavailable: no generation credentials configured. Mapped to
// 503 by the handler.
var ErrGenerationUnavailable = errors.New("generation provider unavailable")

// apologyMessage replaces the reply when the generation call itself fails;
// the request still completes with a 200.
const apologyMessage = "Извините, я сейчас не могу ответить. Попробуйте ещё раз чуть позже."

type AnalyzeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	now    func() time.Time
}

func NewAnalyzeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalyzeLogic {
	return &AnalyzeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		now:    time.Now,
	}
}

// Analyze runs the full pipeline: quota check, perception fan-out, prompt
// building, generation, history update, synthesis. Navigator mode
// short-circuits after perception and touches neither history nor audio.
func (l *AnalyzeLogic) Analyze(req *types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	user, err := l.svcCtx.Store.GetOrCreateUser(l.ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := l.svcCtx.Quota.Check(l.ctx, user); err != nil {
		return nil, err
	}

	result := l.svcCtx.Perception.Run(l.ctx, &perception.Request{
		Image: req.Image,
		Audio: req.Audio,
		Text:  req.Text,
		Mode:  req.Mode,
	})

	if req.Mode == perception.ModeNavigator {
		// Raw object list, no LLM, no TTS, no history mutation.
		return &types.AnalyzeResponse{
			Message: strings.Join(result.Objects, ", "),
			Audio:   nil,
		}, nil
	}

	if result.EffectiveText == "" {
		return nil, ErrEmptyInput
	}

	session, err := l.svcCtx.Store.GetOrCreateSession(l.ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	facts := cag.DefaultFacts()
	if len(session.Facts) > 0 {
		if err := json.Unmarshal(session.Facts, &facts); err != nil {
			l.Errorf("corrupt facts for session %s, starting fresh: %v", req.SessionID, err)
			facts = cag.DefaultFacts()
		}
	}
	cag.UpdateState(&facts, result.EffectiveText)

	visual := visualContext(result)
	systemPrompt := cag.BuildSystemPrompt(facts, visual, l.now())

	llm, err := l.svcCtx.Registry.GetLLM(svc.LLMProviderName)
	if err != nil {
		return nil, ErrGenerationUnavailable
	}

	reply := l.generate(llm, systemPrompt, result.EffectiveText)

	// Both turns land only after a generation result exists, user first.
	session.History.Append(model.RoleUser, result.EffectiveText)
	session.History.Append(model.RoleAssistant, reply)
	if session.Facts, err = json.Marshal(facts); err != nil {
		return nil, err
	}
	if err := l.svcCtx.Store.SaveSession(l.ctx, session); err != nil {
		return nil, err
	}

	// Quota is charged post-completion: an abandoned request never burns it.
	if err := l.svcCtx.Quota.Increment(l.ctx, user); err != nil {
		l.Errorf("failed to increment quota for %s: %v", req.UserID, err)
	}

	var audio *string
	if data := l.svcCtx.Speech.Speak(l.ctx, reply); len(data) > 0 {
		encoded := base64.StdEncoding.EncodeToString(data)
		audio = &encoded
	}

	return &types.AnalyzeResponse{
		Message:     reply,
		Audio:       audio,
		DebugVisual: result.Caption,
	}, nil
}

// generate calls the language model; a failed call degrades to the apology
// message and is not retried.
func (l *AnalyzeLogic) generate(llm provider.LLMProvider, systemPrompt, userText string) string {
	resp, err := llm.Chat(l.ctx, &provider.ChatRequest{
		Model: l.svcCtx.Config.Providers.LLM.Model,
		Messages: []*provider.Message{
			{Role: model.RoleSystem, Content: systemPrompt},
			{Role: model.RoleUser, Content: userText},
		},
		MaxTokens: 500,
	})
	if err != nil {
		l.Errorf("generation failed: %v", err)
		return apologyMessage
	}
	return resp.Text
}

// visualContext merges captioning and OCR output into the single visual
// string handed to the prompt builder.
func visualContext(result *perception.Result) string {
	visual := result.Caption
	if result.OCRText != "" {
		if visual != "" {
			visual += "\n"
		}
		visual += "Текст на изображении: " + result.OCRText
	}
	return visual
}
