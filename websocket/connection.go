// Package websocket streams live fee totals to open registration forms.
// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"equestrian-entries/logger"
)

// WSConn is an interface for the WebSocket connection so tests can fake it.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket subscriber for one form session.
type Connection struct {
	conn      WSConn
	send      chan []byte
	sessionID string
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
)

// ServeWs upgrades the HTTP request and starts the read and write pumps.
// Clients must name the form session they subscribe to via ?sessionId=.
func ServeWs(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		logger.Error.Println("[ServeWs] No session id supplied; rejecting WebSocket connection")
		http.Error(w, "No session selected", http.StatusBadRequest)
		return
	}

	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v, sessionId=%q", r.RemoteAddr, sessionID)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		conn:      wsConn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}
	registerConnection(c)

	go c.readPump()
	go c.writePump()
}

// readPump handles inbound messages from the client.
func (c *Connection) readPump() {
	defer func() {
		unregisterConnection(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Warn.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			break
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var fm FeeMessage
		if err := json.Unmarshal(message, &fm); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		handleIncoming(c, fm)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				logger.Debug.Printf("[writePump] Send channel closed for %v", c.conn.RemoteAddr())
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// registerConnection adds the given connection to the global connections map.
func registerConnection(c *Connection) {
	connectionsMutex.Lock()
	defer connectionsMutex.Unlock()
	connections[c] = true
}

// unregisterConnection removes the given connection from the global connections map.
func unregisterConnection(c *Connection) {
	connectionsMutex.Lock()
	defer connectionsMutex.Unlock()
	delete(connections, c)
}

// FeeMessage is the JSON structure exchanged with subscribers.
type FeeMessage struct {
	Action    string `json:"action"`
	SessionID string `json:"sessionId,omitempty"`
}

// handleIncoming processes an inbound JSON message.
func handleIncoming(c *Connection, fm FeeMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s, SessionID=%s", fm.Action, fm.SessionID)
	switch fm.Action {
	case "requestFee":
		// re-send the current totals for this connection's session
		if FeeSnapshotFunc == nil {
			logger.Warn.Println("[handleIncoming] requestFee received but no snapshot source is wired")
			return
		}
		total, riderFees, ok := FeeSnapshotFunc(c.sessionID)
		if !ok {
			logger.Warn.Printf("[handleIncoming] requestFee for unknown session %s", c.sessionID)
			return
		}
		out, err := json.Marshal(map[string]interface{}{
			"action":    "feeChanged",
			"sessionId": c.sessionID,
			"total":     total,
			"riderFees": riderFees,
		})
		if err != nil {
			logger.Error.Printf("[handleIncoming] Error marshaling fee snapshot: %v", err)
			return
		}
		select {
		case c.send <- out:
		default:
			logger.Warn.Printf("[handleIncoming] Dropping fee snapshot for %v", c.conn.RemoteAddr())
		}
	default:
		logger.Debug.Printf("[handleIncoming] Unhandled action: %s", fm.Action)
	}
}
