package chat

import (
	"net/http"

	logic "github.com/wayfinder-ai/wayfinder/internal/logic/chat"
	"github.com/wayfinder-ai/wayfinder/internal/svc"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// the mobile client connects from a file:// origin
		return true
	},
}

func ChatStreamHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Errorf("WebSocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		l := logic.NewChatStreamLogic(r.Context(), svcCtx)
		l.HandleWebSocket(conn)
	}
}
