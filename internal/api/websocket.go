package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/calvinwijaya/eight-of-clubs/internal/game"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The page is served from this origin; cross-origin JSON clients go
	// through CORS on the HTTP routes instead.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	Type    string      `json:"type"`
	TableID string      `json:"tableId,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	tableID string
	hub     *Hub
}

// Hub maintains the set of active clients per table and pushes table
// updates to them
type Hub struct {
	clients    map[*Client]bool
	unregister chan *Client
	tables     map[string]map[*Client]bool
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client),
		tables:     make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Stop makes Run return and disconnects every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				h.remove(client)
			}
			h.mu.Unlock()
			return

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		}
	}
}

// remove drops a client and closes its send channel. Callers hold h.mu.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	if tableClients := h.tables[client.tableID]; tableClients != nil {
		delete(tableClients, client)
		// Clean up empty tables
		if len(tableClients) == 0 {
			delete(h.tables, client.tableID)
		}
	}
}

// ClientCount returns the number of clients watching a table
func (h *Hub) ClientCount(tableID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tables[tableID])
}

// BroadcastToTable sends a message to all clients watching a table
func (h *Hub) BroadcastToTable(tableID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.tables[tableID] {
		select {
		case client.send <- data:
		default:
			// Slow client, it will catch up from a later version
		}
	}
}

// BroadcastTableUpdate pushes a table state to everyone watching it
func (h *Hub) BroadcastTableUpdate(state game.TableState) {
	h.BroadcastToTable(state.ID, Message{
		Type:    "tableUpdate",
		TableID: state.ID,
		Data:    state,
	})
}

// serve registers a websocket connection for a table. The welcome message
// carries the state taken under the hub lock, so no update between the
// snapshot and the registration is lost.
func (h *Hub) serve(conn *websocket.Conn, tableID string, snapshot func() game.TableState) {
	client := &Client{
		conn:    conn,
		send:    make(chan []byte, 16),
		tableID: tableID,
		hub:     h,
	}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}

	h.clients[client] = true
	if _, exists := h.tables[tableID]; !exists {
		h.tables[tableID] = make(map[*Client]bool)
	}
	h.tables[tableID][client] = true

	welcomeData, err := json.Marshal(Message{Type: "welcome", TableID: tableID, Data: snapshot()})
	if err != nil {
		log.Printf("Error marshaling welcome: %v", err)
	} else {
		client.send <- welcomeData
	}
	h.mu.Unlock()

	go client.readPump()
	go client.writePump()
}

// readPump discards client input and detects closed connections
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
