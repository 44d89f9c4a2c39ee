package services

import (
	"context"
	"encoding/json"
	"log"

	"campuschat/internal/enums"
	"campuschat/internal/errs"
	"campuschat/internal/models"
	redisModels "campuschat/internal/models/redis"

	"github.com/redis/go-redis/v9"
)

// DispatcherService persists outgoing messages and fans them out to the
// receiver's live connections. Fan-out goes through a redis channel so
// it stays correct with more than one server process: every process
// subscribes and delivers to the connections it holds locally.
//
// Delivery is best effort. Once the store accepted the message the
// sender gets a success no matter what happens on the push side;
// offline receivers catch up through GetConversation/GetChatHeads.
type DispatcherService struct {
	ctx         context.Context
	redis       *redis.Client
	hub         *models.SocketHub
	chatService *ChatService
}

func NewDispatcherService(ctx context.Context, redis *redis.Client, hub *models.SocketHub, chatService *ChatService) *DispatcherService {
	return &DispatcherService{
		ctx:         ctx,
		redis:       redis,
		hub:         hub,
		chatService: chatService,
	}
}

func (ds *DispatcherService) Hub() *models.SocketHub {
	return ds.hub
}

// Send persists the message and publishes the delivery event. Store
// failures propagate unchanged; publish failures are logged and
// swallowed because the message is already safely persisted.
func (ds *DispatcherService) Send(message *models.Message) (*models.Message, []error) {
	saved, saveErrs := ds.chatService.SaveMessage(message)
	if len(saveErrs) > 0 {
		return nil, saveErrs
	}

	event := redisModels.RedisPublishedMessage{
		Event:      enums.SOCKET_EVENT_RECEIVE_MESSAGE,
		ReceiverID: saved.ReceiverID,
		Payload:    saved,
	}

	jsonEvent, err := json.Marshal(event)
	if err != nil {
		log.Printf("Send - error marshalling delivery event for message %v: %v", saved.ID, err)
		return saved, nil
	}
	if err := ds.redis.Publish(ds.ctx, redisModels.REDIS_CHANNEL_CHAT, jsonEvent).Err(); err != nil {
		log.Printf("Send - error publishing delivery event for message %v: %v", saved.ID, err)
	}

	return saved, nil
}

// HandleRedisMessages consumes the chat channel and delivers each event
// locally. Runs as a goroutine for the life of the process.
func (ds *DispatcherService) HandleRedisMessages() {
	ch := ds.subscribeToChannel(redisModels.REDIS_CHANNEL_CHAT)
	for msg := range ch {
		var event redisModels.RedisPublishedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("HandleRedisMessages - error unmarshalling event: %v", err)
			continue
		}
		ds.DeliverLocal(event)
	}
}

// DeliverLocal pushes an event to every local connection of the
// receiver. A failed push drops that connection from the registry and
// is otherwise swallowed.
func (ds *DispatcherService) DeliverLocal(event redisModels.RedisPublishedMessage) {
	for _, client := range ds.hub.Connections(event.ReceiverID) {
		if err := client.Channel.Send(event.Event, event.Payload); err != nil {
			log.Printf("DeliverLocal - %v for user %v: %v", errs.ErrPushFailed, event.ReceiverID, err)
			if closeErr := client.Channel.Close(); closeErr != nil {
				log.Printf("DeliverLocal - error closing dead connection of user %v: %v", event.ReceiverID, closeErr)
			}
			ds.hub.Leave(client)
		}
	}
}

func (ds *DispatcherService) subscribeToChannel(channel string) <-chan *redis.Message {
	pubsub := ds.redis.Subscribe(ds.ctx, channel)
	if _, err := pubsub.Receive(ds.ctx); err != nil {
		log.Fatalf("Could not subscribe to channel: %v", err)
	}
	return pubsub.Channel()
}
