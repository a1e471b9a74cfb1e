package chat

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/wayfinder-ai/wayfinder/internal/logic/analyze"
	"github.com/wayfinder-ai/wayfinder/internal/perception"
	"github.com/wayfinder-ai/wayfinder/internal/quota"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	MessageTypeConfig   = "config"
	MessageTypeText     = "text"
	MessageTypeAudio    = "audio"
	MessageTypeResponse = "response"
	MessageTypeTTS      = "tts"
	MessageTypeError    = "error"
)

type ChatStreamLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	// one writer mutex per connection
	wsWriteMutex sync.Mutex
}

func NewChatStreamLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatStreamLogic {
	return &ChatStreamLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// WSMessage is the frame envelope in both directions.
type WSMessage struct {
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type configMessage struct {
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

type textMessage struct {
	Content string `json:"content"`
}

type audioMessage struct {
	Data string `json:"data"` // base64-encoded audio
}

type errorContent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HandleWebSocket is the realtime variant of /api/analyze: every text or
// audio frame runs through the same pipeline and answers with response + tts
// frames on the same connection.
func (l *ChatStreamLogic) HandleWebSocket(conn *websocket.Conn) {
	defer conn.Close()

	session := configMessage{
		SessionID: "anonymous",
		Mode:      perception.ModeChat,
	}

	l.send(conn, "welcome", json.RawMessage(`"WebSocket connection established. Send config to start."`))

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l.Errorf("WebSocket error: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			l.sendError(conn, 400, "unsupported message type")
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			l.sendError(conn, 400, "invalid JSON message: "+err.Error())
			continue
		}

		switch msg.Type {
		case MessageTypeConfig:
			if err := json.Unmarshal(msg.Content, &session); err != nil {
				l.sendError(conn, 400, "invalid config: "+err.Error())
				continue
			}
			if session.SessionID == "" {
				session.SessionID = "anonymous"
			}
			l.send(conn, "config_updated", json.RawMessage(`"Configuration updated successfully"`))

		case MessageTypeText:
			var text textMessage
			if err := json.Unmarshal(msg.Content, &text); err != nil || text.Content == "" {
				l.sendError(conn, 400, "missing text content")
				continue
			}
			l.process(conn, &session, text.Content, nil)

		case MessageTypeAudio:
			var audio audioMessage
			if err := json.Unmarshal(msg.Content, &audio); err != nil {
				l.sendError(conn, 400, "invalid audio frame")
				continue
			}
			audioBytes, err := base64.StdEncoding.DecodeString(audio.Data)
			if err != nil {
				l.sendError(conn, 400, "failed to decode audio data: "+err.Error())
				continue
			}
			if len(audioBytes) == 0 {
				l.sendError(conn, 400, "empty audio data")
				continue
			}
			l.process(conn, &session, "", audioBytes)

		default:
			l.sendError(conn, 400, "unknown message type: "+msg.Type)
		}
	}
}

func (l *ChatStreamLogic) process(conn *websocket.Conn, session *configMessage, text string, audio []byte) {
	userID := session.UserID
	if userID == "" {
		userID = session.SessionID
	}

	resp, err := analyze.NewAnalyzeLogic(l.ctx, l.svcCtx).Analyze(&types.AnalyzeRequest{
		Audio:     audio,
		Text:      text,
		SessionID: session.SessionID,
		UserID:    userID,
		Mode:      session.Mode,
	})
	if err != nil {
		var limitErr *quota.LimitError
		switch {
		case errors.As(err, &limitErr):
			l.sendError(conn, 429, limitErr.Error())
		case errors.Is(err, analyze.ErrEmptyInput):
			l.sendError(conn, 400, "Не удалось распознать запрос.")
		case errors.Is(err, analyze.ErrGenerationUnavailable):
			l.sendError(conn, 503, "Ошибка: Не найден API ключ (OPENAI_API_KEY).")
		default:
			l.Errorf("pipeline failed: %v", err)
			l.sendError(conn, 500, "internal error")
		}
		return
	}

	content, _ := json.Marshal(map[string]string{
		"message":      resp.Message,
		"debug_visual": resp.DebugVisual,
	})
	l.send(conn, MessageTypeResponse, content)

	if resp.Audio != nil {
		audioContent, _ := json.Marshal(map[string]string{"audio": *resp.Audio, "format": "mp3"})
		l.send(conn, MessageTypeTTS, audioContent)
	}
}

// send serializes writes; gorilla connections allow one concurrent writer.
func (l *ChatStreamLogic) send(conn *websocket.Conn, msgType string, content json.RawMessage) {
	l.wsWriteMutex.Lock()
	defer l.wsWriteMutex.Unlock()

	msg := WSMessage{
		Type:      msgType,
		Content:   content,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		l.Errorf("failed to send WebSocket message: %v", err)
	}
}

func (l *ChatStreamLogic) sendError(conn *websocket.Conn, code int, message string) {
	content, _ := json.Marshal(errorContent{Code: code, Message: message})
	l.send(conn, MessageTypeError, content)
}
