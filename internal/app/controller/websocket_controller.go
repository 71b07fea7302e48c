package controller

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"github.com/gin-gonic/gin"
	apperrors "github.com/sehyunahn/seum-backend/internal/errors"
	"github.com/sehyunahn/seum-backend/internal/middleware"
	"github.com/sehyunahn/seum-backend/internal/websocket"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 모바일 앱 클라이언트 전용 채널이라 Origin 검사는 하지 않는다
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// HandleNotifications upgrades the connection and streams notification frames
// GET /ws/notifications?token=<access token>
func (ctrl *WebSocketController) HandleNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	log.Info("WebSocket client connected", map[string]interface{}{
		"user_id": userID,
	})

	go client.WritePump()
	go client.ReadPump()
}
