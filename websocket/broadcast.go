// Package websocket streams live fee totals to open registration forms.
// file: websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"equestrian-entries/logger"
)

// HandleMessages listens on the broadcast channel and distributes each
// message to the subscribers of the session it names. Run once from main.
func HandleMessages() {
	for {
		msg := <-broadcast

		var msgMap map[string]interface{}
		var sessionFilter string

		if err := json.Unmarshal(msg, &msgMap); err == nil {
			if s, ok := msgMap["sessionId"].(string); ok {
				sessionFilter = s
			}
		}

		connectionsMutex.Lock()
		dropped := 0
		for c := range connections {
			if sessionFilter != "" && c.sessionID != sessionFilter {
				continue
			}
			select {
			case c.send <- msg:
			default:
				dropped++
				logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
			}
		}
		connectionsMutex.Unlock()

		if dropped > 0 {
			PublishFeeBroadcastBacklog(dropped, sessionFilter)
		}
	}
}

// BroadcastFeeUpdate pushes the recomputed totals for a session to its
// subscribers. Called by the selection state manager after every mutation
// that can change the fee.
func BroadcastFeeUpdate(sessionID string, total int, riderFees map[string]int) {
	broadcastJSON(map[string]interface{}{
		"action":    "feeChanged",
		"sessionId": sessionID,
		"total":     total,
		"riderFees": riderFees,
	})
}

// BroadcastSessionClosed tells subscribers their form session is gone
// (closed by the user or submitted successfully).
func BroadcastSessionClosed(sessionID string) {
	broadcastJSON(map[string]interface{}{
		"action":    "sessionClosed",
		"sessionId": sessionID,
	})
}

func broadcastJSON(message map[string]interface{}) {
	msg, err := json.Marshal(message)
	if err != nil {
		logger.Error.Printf("Error marshalling message: %v", err)
		return
	}
	broadcast <- msg
}
