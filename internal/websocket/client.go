package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"console-backend/internal/notify"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client is one connected UI surface.
type Client struct {
	ID    string
	Email string
	conn  *websocket.Conn
	hub   *Hub
	send  chan []byte
}

// IncomingMessage is what the UI may send back: pings and dismissals.
type IncomingMessage struct {
	Type string `json:"type"`
	ID   int64  `json:"id,omitempty"`
}

// NewClient creates a client for an upgraded connection.
func NewClient(id, email string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:    id,
		Email: email,
		conn:  conn,
		hub:   hub,
		send:  make(chan []byte, 256),
	}
}

// SendSnapshot queues a notification snapshot for this client only.
func (c *Client) SendSnapshot(snapshot []notify.Notification) {
	data, err := json.Marshal(Envelope{Type: "notifications", Data: snapshot})
	if err != nil {
		log.Printf("❌ [WS] Failed to marshal snapshot: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) handleIncoming(raw []byte) {
	var msg IncomingMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("Invalid message format: %v", err)
		return
	}

	switch msg.Type {
	case "ping":
		resp, _ := json.Marshal(Envelope{Type: "pong", Data: time.Now().Format(time.RFC3339)})
		c.send <- resp

	case "dismiss":
		// Dismissal over the socket; the queue's OnChange hook
		// broadcasts the new state to everyone.
		c.hub.queue.Remove(msg.ID)
	}
}

// ReadPump reads UI messages until the connection drops, then unregisters.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		c.handleIncoming(raw)
	}
}

// WritePump forwards queued snapshots to the connection and keeps it alive
// with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
