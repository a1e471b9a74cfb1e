package navigate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// ErrNoInput: neither text nor a usable transcript was supplied.
var ErrNoInput = errors.New("no input provided")

const clarificationMessage = "Извините, я не смог определить адрес назначения. " +
	"Попробуйте сказать, например: 'Как дойти до улицы Турусбекова, дом 109'"

type NavigateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewNavigateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *NavigateLogic {
	return &NavigateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Navigate extracts a destination from a voice or text query. The client
// builds the actual route; current_lat/current_lon are accepted for that
// handoff but unused here.
func (l *NavigateLogic) Navigate(req *types.NavigateRequest) (*types.NavigateResponse, error) {
	text := strings.TrimSpace(req.Text)
	if len(req.Audio) > 0 {
		if stt, err := l.svcCtx.Registry.GetSTT("whisper"); err == nil {
			transcript, err := stt.Transcribe(l.ctx, req.Audio)
			if err != nil {
				l.Errorf("STT failed: %v", err)
			} else {
				text = strings.TrimSpace(text + " " + strings.TrimSpace(transcript))
			}
		}
	}

	if text == "" {
		return nil, ErrNoInput
	}

	destination := l.svcCtx.Extractor.ExtractDestination(l.ctx, text)
	if destination == "" {
		return &types.NavigateResponse{
			Message:     clarificationMessage,
			Audio:       l.speak(clarificationMessage),
			Destination: nil,
		}, nil
	}

	message := fmt.Sprintf("Строю маршрут до %s. Подождите...", destination)
	return &types.NavigateResponse{
		Message:     message,
		Audio:       l.speak(message),
		Destination: &destination,
		Action:      "build_route",
	}, nil
}

func (l *NavigateLogic) speak(text string) *string {
	data := l.svcCtx.Speech.Speak(l.ctx, text)
	if len(data) == 0 {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return &encoded
}
