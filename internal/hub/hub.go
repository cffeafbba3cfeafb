package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/valueline/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// OpportunityUpdate is the message pushed to clients after each refresh
type OpportunityUpdate struct {
	Type          string               `json:"type"`
	FetchedAt     time.Time            `json:"fetched_at"`
	Opportunities []models.Opportunity `json:"opportunities"`
}

// client is one connected websocket subscriber
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes fresh opportunity lists to connected websocket clients
type Hub struct {
	clientsMu sync.RWMutex
	clients   map[*client]bool

	broadcast  chan OpportunityUpdate
	register   chan *client
	unregister chan *client
}

// NewHub creates a hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan OpportunityUpdate, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run starts the hub's main loop and blocks until the context is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.clientsMu.Unlock()
			fmt.Printf("[hub] client %s connected (total: %d)\n", c.id, total)

		case c := <-h.unregister:
			h.dropClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Broadcast queues an opportunity update for all clients. Never blocks: when
// the buffer is full the update is dropped, the next refresh supersedes it.
func (h *Hub) Broadcast(fetchedAt time.Time, opportunities []models.Opportunity) {
	update := OpportunityUpdate{
		Type:          "opportunities",
		FetchedAt:     fetchedAt,
		Opportunities: opportunities,
	}

	select {
	case h.broadcast <- update:
	default:
		fmt.Println("[hub] broadcast buffer full, dropping update")
	}
}

// ServeWS upgrades an HTTP request to a websocket subscription
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("[hub] upgrade failed: %v\n", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

func (h *Hub) broadcastUpdate(update OpportunityUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		fmt.Printf("[hub] marshal update: %v\n", err)
		return
	}

	h.clientsMu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			// Slow client, disconnect it
			h.dropClient(c)
		}
	}
}

func (h *Hub) dropClient(c *client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		fmt.Printf("[hub] client %s disconnected (total: %d)\n", c.id, len(h.clients))
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.send)
		c.conn.Close()
	}
	h.clients = make(map[*client]bool)
}

// writePump forwards queued messages to the websocket connection
func (c *client) writePump() {
	defer c.conn.Close()

	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains the connection so pings are handled and detects disconnects
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
