// Package websocket - websocket/globals.go
package websocket

import (
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// broadcast is the channel every outbound message funnels through
var broadcast = make(chan []byte, 64)

// connections tracks every live subscriber
var (
	connections      = make(map[*Connection]bool)
	connectionsMutex = &sync.Mutex{}
)

// upgrader upgrades HTTP requests to WebSocket connections
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all if Test-Mode
		if r.Header.Get("Test-Mode") == "true" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" ||
			origin == "http://localhost:8080" ||
			origin == os.Getenv("APPLICATION_URL")
	},
}

// FeeSnapshotFunc is wired up in main to answer "requestFee" messages with
// the current totals for a session. Nil until wired.
var FeeSnapshotFunc func(sessionID string) (total int, riderFees map[string]int, ok bool)
