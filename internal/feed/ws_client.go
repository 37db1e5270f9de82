package feed

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/models"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// WebSocketClient streams events to a browser. The feed is one-way: frames
// read from the socket are discarded and only serve close and pong handling.
type WebSocketClient struct {
	ID     string
	Viewer analysis.Viewer
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.ComplaintEvent

	log       *zap.Logger
	closeOnce sync.Once
}

func NewWebSocketClient(conn *websocket.Conn, hub *Hub, viewer analysis.Viewer, log *zap.Logger) *WebSocketClient {
	id := uuid.New().String()
	return &WebSocketClient{
		ID:     id,
		Viewer: viewer,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.ComplaintEvent, sendBuffer),
		log:    log.With(zap.String("client_id", id)),
	}
}

func (c *WebSocketClient) GetClientID() string       { return c.ID }
func (c *WebSocketClient) GetViewer() analysis.Viewer { return c.Viewer }

func (c *WebSocketClient) GetSendChannel() chan<- models.ComplaintEvent { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which makes writePump close the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("feed read failed", zap.Error(err))
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				c.log.Error("encode complaint event", zap.Error(err))
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
