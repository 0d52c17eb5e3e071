package http

import (
	"sync"

	"github.com/fredcamaral/stepdeck/internal/domain/ports"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

// Connection is one websocket peer as seen by the hub. Send is never
// closed; writers stop once Done is closed.
type Connection struct {
	ID   string
	Send chan ports.UpdateEvent

	done chan struct{}
	once sync.Once
}

// NewConnection creates a connection with a buffered send queue
func NewConnection(id string, buffer int) *Connection {
	return &Connection{
		ID:   id,
		Send: make(chan ports.UpdateEvent, buffer),
		done: make(chan struct{}),
	}
}

// Close marks the connection finished. It is safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() { close(c.done) })
}

// Done is closed once the connection is finished
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Deliver queues event without blocking. It returns false when the
// connection is closed or its queue is full.
func (c *Connection) Deliver(event ports.UpdateEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

// Hub tracks websocket connections for server-wide notifications
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	logger      *logging.Logger
}

// NewHub creates an empty hub
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Hub{
		connections: make(map[string]*Connection),
		logger:      logger,
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn.ID] = conn
	h.logger.Debug("client %s connected (%d total)", conn.ID, len(h.connections))
}

// Unregister removes and closes a connection
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[id]; ok {
		conn.Close()
		delete(h.connections, id)
		h.logger.Debug("client %s disconnected (%d left)", id, len(h.connections))
	}
}

// Broadcast sends event to every open connection, skipping slow ones
func (h *Hub) Broadcast(event ports.UpdateEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conn := range h.connections {
		if !conn.Deliver(event) {
			h.logger.Warn("client %s is slow, skipping %s event", id, event.Type)
		}
	}
}

// Count returns the number of registered connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// CloseAll closes and forgets every connection
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.connections {
		conn.Close()
		delete(h.connections, id)
	}
}
