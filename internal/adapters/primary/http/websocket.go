package http

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBuffer = 16
)

// ClientMessage is a message received from a browser, e.g.
// {"type":"navigation","data":{"action":"goto","slide":3}}
type ClientMessage struct {
	Type string          `json:"type"`
	Data NavigateRequest `json:"data"`
}

// StatePayload is the data of every state-carrying event
type StatePayload struct {
	State entities.NavigationState `json:"state"`
}

// toUpdateEvent converts a session event into its wire form
func toUpdateEvent(event entities.SyncEvent) ports.UpdateEvent {
	return ports.UpdateEvent{
		Type:      event.Type,
		Timestamp: event.Timestamp,
		Data:      StatePayload{State: event.State},
	}
}

// wsClient pumps one websocket connection. Session events and hub
// notifications both reach the socket through conn.Send.
type wsClient struct {
	server *Server
	ws     *websocket.Conn
	conn   *Connection
	logger *logging.Logger
	once   sync.Once
}

// handleWebSocket upgrades the request and attaches the peer to the session
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.isValidOrigin,
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		server: s,
		ws:     ws,
		conn:   NewConnection(uuid.NewString(), sendBuffer),
		logger: s.logger.With("ws"),
	}

	s.hub.Register(client.conn)
	s.monitor.RecordConnection()
	events := s.session.Subscribe(client.conn.ID)

	go client.forward(events)
	go client.writePump()
	go client.readPump()
}

// close detaches the client everywhere; safe to call from any pump
func (c *wsClient) close() {
	c.once.Do(func() {
		c.server.hub.Unregister(c.conn.ID)
		c.server.session.Unsubscribe(c.conn.ID)
		c.conn.Close()
		_ = c.ws.Close()
	})
}

// forward relays session events until the subscription ends
func (c *wsClient) forward(events <-chan entities.SyncEvent) {
	defer c.close()

	for event := range events {
		if c.conn.Deliver(toUpdateEvent(event)) {
			continue
		}
		select {
		case <-c.conn.Done():
			return
		default:
			c.logger.Warn("client %s is slow, dropping %s event", c.conn.ID, event.Type)
		}
	}
}

// readPump handles navigation requests coming from the browser
func (c *wsClient) readPump() {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("client %s: %v", c.conn.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Debug("client %s sent malformed message: %v", c.conn.ID, err)
			continue
		}

		if msg.Type != ports.EventTypeNavigation {
			c.logger.Debug("client %s sent unhandled %q message", c.conn.ID, msg.Type)
			continue
		}

		action, target, err := c.server.resolveNavigation(msg.Data)
		if err != nil {
			c.conn.Deliver(ports.UpdateEvent{
				Type:      ports.EventTypeError,
				Timestamp: time.Now(),
				Data:      map[string]string{"message": err.Error()},
			})
			continue
		}

		if _, accepted := c.server.session.Navigate(action, target); !accepted {
			c.logger.Debug("client %s: %s rejected", c.conn.ID, action)
			continue
		}
		c.server.monitor.RecordNavigation()
	}
}

// writePump is the only writer on the socket
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.conn.Done():
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return

		case event := <-c.conn.Send:
			body, err := json.Marshal(event)
			if err != nil {
				c.logger.Error("encoding %s event: %v", event.Type, err)
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, body); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isValidOrigin accepts same-origin requests, local and private network
// origins in development, and configured CORS origins otherwise
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil || originURL.Host == "" {
		s.logger.Warn("websocket rejected: invalid origin %q", origin)
		return false
	}

	if strings.EqualFold(originURL.Host, r.Host) {
		return true
	}

	if s.config.IsDevelopment() && isLocalNetworkHost(originURL.Hostname()) {
		return true
	}

	for _, allowed := range s.config.GetCORSOrigins() {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	s.logger.Warn("websocket rejected: origin %s not allowed", origin)
	return false
}

func isLocalNetworkHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified())
}
