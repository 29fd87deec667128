package livehub

import (
	"alumnihub/backend/internal/logging"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// WebSocketClient is a browser connection. The socket is push only: anything
// the browser sends is read and discarded to keep pongs flowing.
type WebSocketClient struct {
	userID string
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte
	log    *logging.Logger
}

func NewWebSocketClient(userID string, conn *websocket.Conn, hub *Hub, log *logging.Logger) *WebSocketClient {
	return &WebSocketClient{
		userID: userID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBuffer),
		log:    log,
	}
}

func (c *WebSocketClient) UserID() string             { return c.userID }
func (c *WebSocketClient) SendChannel() chan<- []byte { return c.send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops writePump, which closes the socket.
func (c *WebSocketClient) Close() {
	close(c.send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", "user_id", c.userID, "error", err)
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
