package models

import (
	"log"
	"sync"

	"campuschat/internal/interfaces"
)

// SocketClient is one live connection of one user. A user with several
// browser tabs open holds several clients at once.
type SocketClient struct {
	UserID  uint
	Channel interfaces.PushChannel
}

// SocketHub is the connection registry: user id to live clients.
// State is process-local and rebuilt from scratch on restart, every
// user is offline until it reconnects and joins again.
type SocketHub struct {
	mu      sync.Mutex
	clients map[uint][]*SocketClient
}

func NewSocketHub() *SocketHub {
	return &SocketHub{
		clients: make(map[uint][]*SocketClient),
	}
}

// Join registers a connection under a user id and returns the client
// handle used to leave later. A zero user id is a no-op; the registry
// does not authenticate ids, but it refuses to file connections under
// nobody.
func (hub *SocketHub) Join(userID uint, channel interfaces.PushChannel) *SocketClient {
	if userID == 0 {
		log.Println("SocketHub - join ignored: empty user id")
		return nil
	}
	client := &SocketClient{
		UserID:  userID,
		Channel: channel,
	}
	hub.mu.Lock()
	hub.clients[userID] = append(hub.clients[userID], client)
	hub.mu.Unlock()
	return client
}

// Leave removes a connection from the registry. Safe to call more than
// once and with a nil client.
func (hub *SocketHub) Leave(client *SocketClient) {
	if client == nil {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()
	connections := hub.clients[client.UserID]
	for i, registered := range connections {
		if registered == client {
			hub.clients[client.UserID] = append(connections[:i], connections[i+1:]...)
			break
		}
	}
	if len(hub.clients[client.UserID]) == 0 {
		delete(hub.clients, client.UserID)
	}
}

// Connections returns the live clients of a user, zero or more. The
// returned slice is a snapshot; join/leave after the call do not
// affect it.
func (hub *SocketHub) Connections(userID uint) []*SocketClient {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	connections := hub.clients[userID]
	snapshot := make([]*SocketClient, len(connections))
	copy(snapshot, connections)
	return snapshot
}

// OnlineUserIDs returns the ids of every user holding at least one
// live connection.
func (hub *SocketHub) OnlineUserIDs() []uint {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	ids := make([]uint, 0, len(hub.clients))
	for id := range hub.clients {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll closes every registered channel and empties the registry.
// Used on server shutdown.
func (hub *SocketHub) CloseAll() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for userID, connections := range hub.clients {
		for _, client := range connections {
			if err := client.Channel.Close(); err != nil {
				log.Printf("SocketHub - error closing connection of user %v: %v", userID, err)
			}
		}
		delete(hub.clients, userID)
	}
}
