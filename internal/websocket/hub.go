package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"console-backend/internal/notify"
)

// Hub maintains the connected UI clients and fans notification-queue
// snapshots out to all of them.
type Hub struct {
	// Registered clients (clientID -> Client)
	clients map[string]*Client

	// Outbound snapshots to fan out
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Queue the clients may dismiss entries on
	queue *notify.Queue

	mu sync.RWMutex
}

// Envelope is the wire format for every message the hub sends.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewHub creates a hub over the given notification queue and wires the
// queue's OnChange hook to broadcast each new snapshot.
func NewHub(queue *notify.Queue) *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		queue:      queue,
	}
	queue.OnChange = func(snapshot []notify.Notification) {
		h.BroadcastSnapshot(snapshot)
	}
	return h
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ [WS] Client connected: %s (%s), total %d", client.ID, client.Email, total)

			// New clients immediately get the current queue state.
			client.SendSnapshot(h.queue.Items())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("🔴 [WS] Client disconnected: %s, remaining %d", client.ID, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full, drop the client.
					close(client.send)
					delete(h.clients, id)
					log.Printf("⚠️ [WS] Client buffer full, disconnecting: %s", id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSnapshot queues a notification snapshot for every client.
func (h *Hub) BroadcastSnapshot(snapshot []notify.Notification) {
	data, err := json.Marshal(Envelope{Type: "notifications", Data: snapshot})
	if err != nil {
		log.Printf("❌ [WS] Failed to marshal snapshot: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Println("⚠️ [WS] Broadcast channel full, dropping snapshot")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
