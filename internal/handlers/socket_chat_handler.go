package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"campuschat/internal/enums"
	"campuschat/internal/models"
	"campuschat/internal/models/socket"
	"campuschat/internal/services"
	"campuschat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type SocketChatHandler struct {
	upgrader          websocket.Upgrader
	hub               *models.SocketHub
	dispatcherService *services.DispatcherService
}

func NewSocketChatHandler(hub *models.SocketHub, dispatcherService *services.DispatcherService) *SocketChatHandler {
	return &SocketChatHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub:               hub,
		dispatcherService: dispatcherService,
	}
}

// StartSocket runs the redis fan-out loop for the life of the process.
func (sch *SocketChatHandler) StartSocket() {
	go sch.dispatcherService.HandleRedisMessages()
}

// HandleSocketChatRoute upgrades the connection and walks it through
// its lifecycle: not joined until the client sends a join event, then
// registered in the hub until the read loop ends.
func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	authenticatedID := utils.GetUserIdFromContext(ctx)
	channel := NewWebsocketChannel(ws)

	var client *models.SocketClient
	defer func() {
		sch.hub.Leave(client)
	}()

	for {
		var event socket.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			log.Printf("Error reading json: %v", err)
			break
		}

		switch event.Event {
		case enums.SOCKET_EVENT_JOIN:
			if client != nil {
				continue
			}
			client = sch.handleJoinEvent(event.Payload, authenticatedID, channel)
		case enums.SOCKET_EVENT_SEND_MESSAGE:
			if client == nil {
				log.Println("send_message before join, dropping event")
				continue
			}
			sch.handleSendMessageEvent(event.Payload, client.UserID)
		default:
			log.Printf("Unknown event: %v", event.Event)
		}
	}
}

// handleJoinEvent registers the connection under the announced user id.
// The registry does not authenticate the id; when the session token
// already identified the caller the announced id is overridden by it.
// A missing or empty id is a warning and a no-op, never a crash.
func (sch *SocketChatHandler) handleJoinEvent(payload json.RawMessage, authenticatedID uint, channel *WebsocketChannel) *models.SocketClient {
	var join socket.JoinPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &join); err != nil {
			log.Printf("handleJoinEvent - invalid join payload: %v", err)
			return nil
		}
	}

	userID := join.UserID
	if authenticatedID != 0 {
		userID = authenticatedID
	}

	return sch.hub.Join(userID, channel)
}

func (sch *SocketChatHandler) handleSendMessageEvent(payload json.RawMessage, senderID uint) {
	var messageRequest models.MessageRequest
	if err := json.Unmarshal(payload, &messageRequest); err != nil {
		log.Printf("handleSendMessageEvent - invalid payload: %v", err)
		return
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: messageRequest.ReceiverID,
		Content:    messageRequest.Content,
	}

	if _, sendErrs := sch.dispatcherService.Send(message); len(sendErrs) > 0 {
		log.Printf("handleSendMessageEvent - error sending message: %v", sendErrs)
	}
}

// WebsocketChannel adapts a gorilla websocket connection to the
// PushChannel interface. Writes are serialized; gorilla connections do
// not allow concurrent writers.
type WebsocketChannel struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebsocketChannel(conn *websocket.Conn) *WebsocketChannel {
	return &WebsocketChannel{
		conn: conn,
	}
}

func (wc *WebsocketChannel) Send(event string, payload any) error {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.conn.WriteJSON(socketFrame{
		Event:   event,
		Payload: payload,
	})
}

func (wc *WebsocketChannel) Close() error {
	return wc.conn.Close()
}

type socketFrame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}
