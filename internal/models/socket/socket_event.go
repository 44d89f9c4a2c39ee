package socket

import (
	"encoding/json"
)

// SocketEvent is the envelope for every client-to-server socket frame.
type SocketEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// JoinPayload carries the user id a client announces on join.
type JoinPayload struct {
	UserID uint `json:"user_id"`
}
