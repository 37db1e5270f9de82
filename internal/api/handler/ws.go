package handler

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/feed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades to the live complaint feed. Browsers cannot set
// headers on WebSocket requests, so the token comes in ?token=.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "authorization token missing")
		return
	}
	user, err := h.userFromToken(c, token)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if user == nil {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid token or expired")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := feed.NewWebSocketClient(conn, h.Hub, analysis.ViewerFor(user), h.Log)
	select {
	case h.Hub.RegisterCh <- client:
	case <-h.Hub.Done():
		conn.Close()
		return
	}
	client.Run()
}
