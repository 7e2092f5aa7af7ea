package preview

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub manages WebSocket connections for the schema explorer. Browsers
// subscribe once and are told whenever the schema is reparsed.
type Hub struct {
	connections map[*websocket.Conn]bool
	broadcast   chan *Event
	register    chan *websocket.Conn
	unregister  chan *websocket.Conn
	done        chan struct{}
	mutex       sync.RWMutex
	upgrader    websocket.Upgrader
}

// Event is pushed to connected browsers over the WebSocket.
type Event struct {
	Type        string       `json:"type"` // "parsing", "schema", "error"
	Timestamp   int64        `json:"timestamp"`
	Files       []string     `json:"files,omitempty"`
	Entities    int          `json:"entities,omitempty"`
	Enums       int          `json:"enums,omitempty"`
	Duration    float64      `json:"duration,omitempty"` // Milliseconds
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Diagnostic is the wire form of a parse diagnostic shown in the explorer.
type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// NewHub creates a hub and starts its connection loop.
func NewHub() *Hub {
	h := &Hub{
		connections: make(map[*websocket.Conn]bool),
		broadcast:   make(chan *Event, 256),
		register:    make(chan *websocket.Conn),
		unregister:  make(chan *websocket.Conn),
		done:        make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Allow no origin (same-origin)
					return true
				}
				// Allow localhost only for security
				return strings.HasPrefix(origin, "http://localhost") ||
					strings.HasPrefix(origin, "https://localhost") ||
					strings.HasPrefix(origin, "http://127.0.0.1") ||
					strings.HasPrefix(origin, "https://127.0.0.1")
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	go h.run()

	return h
}

// run handles the WebSocket connection lifecycle
func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			log.Printf("[Preview] Shutting down reload hub")
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.connections[conn] = true
			h.mutex.Unlock()
			log.Printf("[Preview] Client connected (total: %d)", len(h.connections))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				conn.Close()
			}
			h.mutex.Unlock()
			log.Printf("[Preview] Client disconnected (total: %d)", len(h.connections))

		case event := <-h.broadcast:
			h.sendToAll(event)
		}
	}
}

// sendToAll sends an event to all connected clients
func (h *Hub) sendToAll(event *Event) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Preview] Failed to marshal event: %v", err)
		return
	}

	// Collect failed connections while holding read lock
	h.mutex.RLock()
	var failedConns []*websocket.Conn
	for conn := range h.connections {
		err := conn.WriteMessage(websocket.TextMessage, eventJSON)
		if err != nil {
			log.Printf("[Preview] Failed to send event: %v", err)
			failedConns = append(failedConns, conn)
		}
	}
	h.mutex.RUnlock()

	// Remove failed connections with write lock
	if len(failedConns) > 0 {
		h.mutex.Lock()
		for _, conn := range failedConns {
			if _, ok := h.connections[conn]; ok {
				conn.Close()
				delete(h.connections, conn)
			}
		}
		h.mutex.Unlock()
	}
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Preview] Failed to upgrade connection: %v", err)
		return
	}

	h.register <- conn

	// Start reading messages (mostly for keepalive)
	go h.readMessages(conn)
}

// readMessages reads messages from the client (for keepalive)
func (h *Hub) readMessages(conn *websocket.Conn) {
	defer func() {
		h.unregister <- conn
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Preview] WebSocket error: %v", err)
			}
			break
		}
	}
}

// NotifyParsing tells clients a regeneration cycle has started.
func (h *Hub) NotifyParsing(files []string) {
	h.broadcast <- &Event{
		Type:      "parsing",
		Timestamp: time.Now().Unix(),
		Files:     files,
	}
}

// NotifySchema tells clients a new schema is available to fetch.
func (h *Hub) NotifySchema(entities, enums int, duration time.Duration) {
	h.broadcast <- &Event{
		Type:      "schema",
		Timestamp: time.Now().Unix(),
		Entities:  entities,
		Enums:     enums,
		Duration:  float64(duration.Milliseconds()),
	}
}

// NotifyError pushes parse diagnostics to clients.
func (h *Hub) NotifyError(diags []Diagnostic) {
	h.broadcast <- &Event{
		Type:        "error",
		Timestamp:   time.Now().Unix(),
		Diagnostics: diags,
	}
}

// ConnectionCount returns the number of active connections
func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.connections)
}

// Close closes all connections and stops the hub
func (h *Hub) Close() {
	close(h.done)

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.connections {
		conn.Close()
	}
	h.connections = make(map[*websocket.Conn]bool)
}
