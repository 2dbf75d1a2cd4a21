package ws

import (
	"time"

	"skate_app/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	// pingInterval must stay below pongTimeout or healthy clients get
	// dropped between pings.
	pongTimeout    = 30 * time.Second
	pingInterval   = 25 * time.Second
	writeTimeout   = 10 * time.Second
	maxMessageSize = 4096
)

// Client is one websocket connection of a user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	hub *Hub
}

func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 1024),
		hub:    hub,
	}
}

// Run registers the connection and pumps until it drops. The read
// side only services pong frames and disconnects; players act through
// the REST API.
func (c *Client) Run() {
	c.hub.register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.resetReadDeadline()
	c.Conn.SetPongHandler(func(string) error { return c.resetReadDeadline() })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read closed", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

func (c *Client) resetReadDeadline() error {
	return c.Conn.SetReadDeadline(time.Now().Add(pongTimeout))
}

func (c *Client) writePump() {
	pinger := time.NewTicker(pingInterval)
	defer func() {
		pinger.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-pinger.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, payload []byte) error {
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.Conn.WriteMessage(messageType, payload)
}
